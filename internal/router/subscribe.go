package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/subscribe-forwarder/internal/handler"
)

func registerSubscribeRoutes(g *echo.Group, h *handler.Handlers) {
	g.POST("/subscribe", h.Subscribe.Subscribe)
}
