package jsonutil

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Email string `json:"email"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "single object", body: `{"email":"a@b.co"}`},
		{name: "surrounding whitespace", body: "  {\"email\":\"a@b.co\"}\n\t"},
		{name: "trailing garbage", body: `{"email":"a@b.co"} trailing-garbage`, wantErr: ErrTrailingData},
		{name: "second value", body: `{"email":"a"}{"email":"b"}`, wantErr: ErrTrailingData},
		{name: "stray closing brace", body: `{"email":"a"}}`, wantErr: ErrTrailingData},
		{name: "trailing html", body: `{"email":"a"} <html>`, wantErr: ErrTrailingData},
		{name: "empty", body: ``, wantErr: io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := Decode(strings.NewReader(tt.body), &p)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "a@b.co", p.Email)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestDecodeSyntaxError(t *testing.T) {
	var p payload
	err := Decode(strings.NewReader(`{"email":`), &p)

	var syntaxErr *json.SyntaxError
	var unexpectedEOF = errors.Is(err, io.ErrUnexpectedEOF)
	assert.True(t, errors.As(err, &syntaxErr) || unexpectedEOF, "got %v", err)
}
