package service

import (
	"github.com/pkg/errors"

	"github.com/deppfellow/subscribe-forwarder/internal/server"
)

type Services struct {
	Subscribe *SubscribeService
}

func NewServices(s *server.Server) (*Services, error) {
	if s.Upstream == nil {
		return nil, errors.New("upstream client not initialized")
	}

	return &Services{
		Subscribe: NewSubscribeService(s),
	}, nil
}
