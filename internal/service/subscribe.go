package service

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/subscribe-forwarder/internal/errs"
	"github.com/deppfellow/subscribe-forwarder/internal/middleware"
	"github.com/deppfellow/subscribe-forwarder/internal/model"
	"github.com/deppfellow/subscribe-forwarder/internal/server"
)

// Subscriber is the upstream operation SubscribeService depends on.
// *upstream.Client implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) (*model.SubscribeResult, error)
}

type SubscribeService struct {
	server   *server.Server
	upstream Subscriber
}

func NewSubscribeService(s *server.Server) *SubscribeService {
	return &SubscribeService{
		server:   s,
		upstream: s.Upstream,
	}
}

// Subscribe forwards req.Email to the upstream exactly once.
//
// The returned error is always an *errs.Failure.
func (s *SubscribeService) Subscribe(c echo.Context, req *model.SubscribeRequest) (*model.SubscribeResult, error) {
	logger := middleware.GetLogger(c)

	if req == nil || req.Email == "" {
		return nil, errs.NewValidationFailure([]errs.FieldError{{Field: "email", Error: "is required"}})
	}

	start := time.Now()
	result, err := s.upstream.Subscribe(c.Request().Context(), req.Email)
	if err != nil {
		logger.Debug().
			Err(err).
			Str("failure_kind", errs.KindOf(err).String()).
			Dur("upstream_duration", time.Since(start)).
			Msg("subscription failed")
		return nil, err
	}

	logger.Info().
		Dur("upstream_duration", time.Since(start)).
		Msg("subscription forwarded")

	return result, nil
}
