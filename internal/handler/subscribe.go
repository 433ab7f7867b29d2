package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/subscribe-forwarder/internal/errs"
	"github.com/deppfellow/subscribe-forwarder/internal/model"
	"github.com/deppfellow/subscribe-forwarder/internal/server"
	"github.com/deppfellow/subscribe-forwarder/internal/service"
)

const (
	MessageEmailRequired   = "Email is required"
	MessageSubscribeFailed = "Failed to subscribe. Please try again."
)

type SubscribeHandler struct {
	Handler
	subscribeService *service.SubscribeService
}

func NewSubscribeHandler(s *server.Server, subscribeService *service.SubscribeService) *SubscribeHandler {
	return &SubscribeHandler{
		Handler:          NewHandler(s),
		subscribeService: subscribeService,
	}
}

// Subscribe handles POST /api/subscribe.
func (h *SubscribeHandler) Subscribe(c echo.Context) error {
	return Handle[model.SubscribeRequest, *model.SubscribeRequest, *model.SubscribeResult](
		h.Handler,
		h.subscribeService.Subscribe,
		http.StatusOK,
		MapSubscribeError,
	)(c)
}

// MapSubscribeError maps a failure kind to its client response. Only a
// missing email is the caller's fault; every other kind is reported as the
// same generic 500 with the technical error attached for logging only.
func MapSubscribeError(err error) error {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return errs.NewMessageError(http.StatusBadRequest, MessageEmailRequired).WithCause(err)
	default:
		return errs.NewMessageError(http.StatusInternalServerError, MessageSubscribeFailed).WithCause(err)
	}
}
