package handler

import (
	"github.com/deppfellow/subscribe-forwarder/internal/server"
	"github.com/deppfellow/subscribe-forwarder/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one object.
type Handlers struct {
	Subscribe *SubscribeHandler
	Health    *HealthHandler  // Health serves GET /status.
	OpenAPI   *OpenAPIHandler // OpenAPI serves the API document.
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Subscribe: NewSubscribeHandler(s, services.Subscribe),
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
	}
}
