// Package config manages environment variables.
//
// It reads variables from the `.env` file and the process environment,
// loads them into structured Go types (struct), and validates that
// required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (server, observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists in the working directory,
	// it is loaded into the process env before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the FORWARDER_ prefix. Keys are lower-cased with
	the prefix removed, and "." marks nesting:

		FORWARDER_UPSTREAM.URL            -> upstream.url     -> Config.Upstream.URL
		FORWARDER_SERVER.PORT             -> server.port      -> Config.Server.Port
		FORWARDER_OBSERVABILITY.LOGGING.LEVEL -> Config.Observability.Logging.Level
*/

// EnvPrefix is the prefix every configuration env var must carry.
const EnvPrefix = "FORWARDER_"

// ServiceName is the fixed name this service reports in logs and traces.
const ServiceName = "subscribe-forwarder"

// listKeys are the config keys whose env values are comma-separated lists.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Upstream      UpstreamConfig       `koanf:"upstream" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the sustained number of requests per second allowed per
	// client IP. Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`

	// RateLimitBurst is the token bucket size. Zero means ceil(RateLimit).
	RateLimitBurst int `koanf:"rate_limit_burst" validate:"min=0"`

	// TrustProxyHeaders makes the client IP come from X-Forwarded-For when
	// the direct peer is a loopback, link-local or private address. When
	// false the TCP peer address is used and forwarding headers are ignored.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// UpstreamConfig describes the remote subscription service every request
// is forwarded to.
type UpstreamConfig struct {
	// URL is the full endpoint the forwarder POSTs to,
	// e.g. https://subscribe.example.com/subscribe.
	URL string `koanf:"url" validate:"required,url"`

	// Timeout bounds a single upstream call. Zero leaves the call bounded
	// only by the inbound request's context.
	Timeout time.Duration `koanf:"timeout" validate:"min=0"`

	// HealthURL is probed with GET by the health endpoint. Empty disables
	// the upstream health check.
	HealthURL string `koanf:"health_url" validate:"omitempty,url"`
}

// DefaultConfig returns a Config populated with every default value.
// Upstream.URL has no default and must come from the environment.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          20,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it
// over the defaults, validates it, and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix FORWARDER_
//   - Unmarshals them over DefaultConfig()
//   - Validates struct tags
//   - Overrides observability service name + environment
//   - Validates observability config as well
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	// Values present in the environment replace the pre-populated defaults;
	// everything else keeps its default.
	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed and the environment always follows primary.env
	// so logs and traces are labelled consistently.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// splitList splits a comma-separated env value, dropping blank entries.
func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// EffectiveBurst returns the token bucket size the rate limiter should use.
func (s ServerConfig) EffectiveBurst() int {
	if s.RateLimitBurst > 0 {
		return s.RateLimitBurst
	}
	burst := int(s.RateLimit)
	if float64(burst) < s.RateLimit {
		burst++
	}
	if burst < 1 {
		burst = 1
	}
	return burst
}
