// Package model holds the request and response payloads exchanged with
// callers and with the upstream subscription service.
package model

import (
	"encoding/json"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New()

// SubscribeRequest is the inbound body of POST /api/subscribe and, unchanged,
// the body forwarded upstream.
//
// Only presence is checked; the address format is left to the upstream.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required"`
}

// UnmarshalJSON accepts any JSON document. A body that is not an object, and
// an email that is null, false, 0 or "", leaves Email empty so validation
// reports it as missing. Any other non-string email is a type error.
func (r *SubscribeRequest) UnmarshalJSON(data []byte) error {
	*r = SubscribeRequest{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil
		}
		return err
	}

	raw, ok := fields["email"]
	if !ok {
		return nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case nil:
		return nil
	case string:
		r.Email = v
		return nil
	case bool:
		if !v {
			return nil
		}
	case float64:
		if v == 0 {
			return nil
		}
	}

	return &json.UnmarshalTypeError{
		Value: string(raw),
		Type:  reflect.TypeOf(""),
		Field: "email",
	}
}

// Validate implements validation.Validatable.
func (r *SubscribeRequest) Validate() error {
	return validate.Struct(r)
}

// SubscribeResult is the success body returned by the upstream and relayed
// to the caller as-is.
type SubscribeResult struct {
	Message string `json:"message"`
}
