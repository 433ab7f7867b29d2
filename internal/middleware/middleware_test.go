package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/subscribe-forwarder/internal/config"
	"github.com/deppfellow/subscribe-forwarder/internal/errs"
	"github.com/deppfellow/subscribe-forwarder/internal/server"
)

func newTestServer(out *bytes.Buffer) *server.Server {
	logger := zerolog.New(out)
	cfg := config.DefaultConfig()
	cfg.Upstream.URL = "https://subscribe.example.com/subscribe"
	return &server.Server{Config: cfg, Logger: &logger}
}

func TestRequestIDGeneratesAndReuses(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", rec.Body.String())
}

func TestGetLoggerFallsBackToNop(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	require.NotNil(t, GetLogger(c))
	require.NotNil(t, LoggerFromContext(c.Request().Context()))
}

func TestEnhanceContextStoresLogger(t *testing.T) {
	var out bytes.Buffer
	ce := NewContextEnhancer(newTestServer(&out))

	e := echo.New()
	e.Use(RequestID(), ce.EnhanceContext())
	e.GET("/ping", func(c echo.Context) error {
		GetLogger(c).Info().Msg("from echo context")
		LoggerFromContext(c.Request().Context()).Info().Msg("from request context")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, out.String(), `"request_id":"req-1"`)
	assert.Contains(t, out.String(), "from echo context")
	assert.Contains(t, out.String(), "from request context")
}

func serveError(t *testing.T, s *server.Server, method string, err error) *httptest.ResponseRecorder {
	t.Helper()

	global := NewGlobalMiddlewares(s)
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(method, "/api/subscribe", nil), httptest.NewRecorder())
	c.Set(LoggerKey, s.Logger)
	rec := c.Response().Writer.(*httptest.ResponseRecorder)

	global.GlobalErrorHandler(err, c)
	return rec
}

func TestGlobalErrorHandlerMasksUnknownErrors(t *testing.T) {
	var out bytes.Buffer
	rec := serveError(t, newTestServer(&out), http.MethodPost, errors.New("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), `"code":"INTERNAL_SERVER_ERROR"`)
	assert.Contains(t, out.String(), "connection refused")
}

func TestGlobalErrorHandlerRendersMessageOnly(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)
	cause := errs.NewUpstreamFailure(http.StatusServiceUnavailable, "quota exhausted")
	err := errs.NewMessageError(http.StatusInternalServerError, "Failed to subscribe. Please try again.").WithCause(cause)

	rec := serveError(t, s, http.MethodPost, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Failed to subscribe. Please try again."}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "quota exhausted")

	assert.Contains(t, out.String(), `"level":"error"`)
	assert.Contains(t, out.String(), "quota exhausted")
	assert.Contains(t, out.String(), "status 503")
}

func TestGlobalErrorHandlerConvertsEchoErrors(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)

	rec := serveError(t, s, http.MethodGet, echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")

	rec = serveError(t, s, http.MethodPost, echo.ErrMethodNotAllowed)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"METHOD_NOT_ALLOWED"`)
}

func TestGlobalErrorHandlerHead(t *testing.T) {
	var out bytes.Buffer
	rec := serveError(t, newTestServer(&out), http.MethodHead, echo.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRequestLoggerDoesNotReportFailures(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)
	global := NewGlobalMiddlewares(s)

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(LoggerKey, s.Logger)
			return next(c)
		}
	}, global.RequestLogger())
	e.GET("/", func(c echo.Context) error {
		return errs.NewMessageError(http.StatusInternalServerError, "failed").WithCause(errors.New("secret detail"))
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, out.String(), `"status":500`)
	assert.Contains(t, out.String(), `"level":"info"`)
	assert.NotContains(t, out.String(), "secret detail")
}

func TestRateLimitDisabled(t *testing.T) {
	var out bytes.Buffer
	s := newTestServer(&out)
	s.Config.Server.RateLimit = 0

	e := echo.New()
	e.Use(NewRateLimitMiddleware(s).Limit())
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}
