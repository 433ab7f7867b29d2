// Package router builds the Echo instance: it installs the global
// middleware chain and error handler and maps routes to handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/subscribe-forwarder/internal/config"
	"github.com/deppfellow/subscribe-forwarder/internal/handler"
	"github.com/deppfellow/subscribe-forwarder/internal/middleware"
	"github.com/deppfellow/subscribe-forwarder/internal/server"
)

// NewRouter returns a configured Echo instance serving the system routes
// and the /api group.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler
	router.IPExtractor = ipExtractor(s.Config.Server)

	router.Use(
		middlewares.Global.CORS(),
		middlewares.RateLimit.Limit(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerSubscribeRoutes(api, h)

	return router
}

// ipExtractor decides what c.RealIP, and so the rate limiter key, returns.
func ipExtractor(cfg config.ServerConfig) echo.IPExtractor {
	if cfg.TrustProxyHeaders {
		return echo.ExtractIPFromXFFHeader()
	}
	return echo.ExtractIPDirect()
}
