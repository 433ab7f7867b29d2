package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/subscribe-forwarder/internal/config"
	"github.com/deppfellow/subscribe-forwarder/internal/middleware"
	"github.com/deppfellow/subscribe-forwarder/internal/server"
)

// HealthHandler serves GET /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler with access to shared app dependencies.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns service status and, when enabled and configured, the
// result of probing the upstream health URL.
//
// It returns 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	obs := h.server.Config.Observability
	if obs != nil && obs.HealthCheckEnabled(config.HealthCheckUpstream) && h.server.Upstream.HealthCheckConfigured() {
		ctx, cancel := context.WithTimeout(c.Request().Context(), obs.HealthChecks.Timeout)
		defer cancel()

		upstreamStart := time.Now()

		if err := h.server.Upstream.Ping(ctx); err != nil {
			checks[config.HealthCheckUpstream] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(upstreamStart).String(),
				"error":         err.Error(),
			}

			isHealthy = false

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(upstreamStart)).
				Msg("upstream health check failed")

			h.recordHealthCheckError(map[string]interface{}{
				"check_type":       config.HealthCheckUpstream,
				"operation":        "health_check",
				"error_type":       "upstream_unhealthy",
				"response_time_ms": time.Since(upstreamStart).Milliseconds(),
				"error_message":    err.Error(),
			})
		} else {
			checks[config.HealthCheckUpstream] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(upstreamStart).String(),
			}

			logger.Info().
				Dur("response_time", time.Since(upstreamStart)).
				Msg("upstream health check passed")
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) recordHealthCheckError(attrs map[string]interface{}) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
