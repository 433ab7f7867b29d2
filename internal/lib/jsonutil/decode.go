// Package jsonutil decodes JSON documents strictly: a body must hold exactly
// one JSON value, optionally surrounded by whitespace.
package jsonutil

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// ErrTrailingData is returned when a JSON value is followed by anything but
// whitespace.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// Decode reads a single JSON value from r into v and fails when r holds
// more than that value. An empty r yields io.EOF.
func Decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return errors.Wrap(ErrTrailingData, err.Error())
		}
		return ErrTrailingData
	}
	return nil
}
