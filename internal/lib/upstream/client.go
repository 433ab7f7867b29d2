// Package upstream is the HTTP client for the remote subscription service.
//
// Every call is a single POST with no retry. Failures come back as
// *errs.Failure so callers can tell an upstream rejection (KindUpstream)
// from a network or decoding problem (KindTransport).
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/newrelic/go-agent/v3/newrelic"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/deppfellow/subscribe-forwarder/internal/config"
	"github.com/deppfellow/subscribe-forwarder/internal/errs"
	"github.com/deppfellow/subscribe-forwarder/internal/lib/jsonutil"
	"github.com/deppfellow/subscribe-forwarder/internal/model"
)

// MaxResponseSize bounds how much of an upstream response body is read.
const MaxResponseSize int64 = 1 << 20

// Client posts subscription requests to the configured upstream URL.
type Client struct {
	url        string
	healthURL  string
	httpClient *http.Client
	transport  *http.Transport
	logger     *zerolog.Logger
}

// NewClient creates an upstream Client.
//
// The transport is wrapped with newrelic.NewRoundTripper so each call shows
// up as an external segment when the request context carries a transaction.
func NewClient(cfg config.UpstreamConfig, logger *zerolog.Logger) (*Client, error) {
	if err := checkURL(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}
	if cfg.HealthURL != "" {
		if err := checkURL(cfg.HealthURL); err != nil {
			return nil, fmt.Errorf("invalid upstream health url: %w", err)
		}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &Client{
		url:       cfg.URL,
		healthURL: cfg.HealthURL,
		httpClient: &http.Client{
			Transport: newrelic.NewRoundTripper(transport),
			Timeout:   cfg.Timeout,
		},
		transport: transport,
		logger:    logger,
	}, nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// Subscribe forwards email to the upstream and returns its parsed reply.
func (c *Client) Subscribe(ctx context.Context, email string) (*model.SubscribeResult, error) {
	body, err := json.Marshal(model.SubscribeRequest{Email: email})
	if err != nil {
		return nil, errs.NewTransportFailure("encode upstream request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errs.NewTransportFailure("build upstream request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.NewTransportFailure("post to upstream", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errs.NewUpstreamFailure(resp.StatusCode, errorBody(resp.Body))
	}

	var result *model.SubscribeResult
	if err := jsonutil.Decode(io.LimitReader(resp.Body, MaxResponseSize), &result); err != nil {
		return nil, errs.NewTransportFailure("decode upstream response", err)
	}
	if result == nil {
		return nil, errs.NewTransportFailure("decode upstream response", ErrNullResponse)
	}

	c.logger.Debug().
		Int("status", resp.StatusCode).
		Str("upstream", c.url).
		Msg("upstream accepted subscription")

	return result, nil
}

// Ping probes the upstream health URL with GET. Any 2xx is healthy.
func (c *Client) Ping(ctx context.Context) error {
	if c.healthURL == "" {
		return ErrHealthCheckDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return pkgerrors.Wrap(err, "build upstream health request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(err, "probe upstream health")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseSize))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return pkgerrors.Errorf("upstream health returned status %d", resp.StatusCode)
	}
	return nil
}

// HealthCheckConfigured reports whether Ping has a URL to probe.
func (c *Client) HealthCheckConfigured() bool {
	return c.healthURL != ""
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

// errorBody reads an error response for diagnostics. Read errors are ignored;
// a partial body is still useful in a log line.
func errorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}
