package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/subscribe-forwarder/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of the
// subscription flow.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/docs/openapi.json", h.OpenAPI.ServeOpenAPIDocument)
}
