package validation

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/subscribe-forwarder/internal/errs"
	"github.com/deppfellow/subscribe-forwarder/internal/lib/jsonutil"
	"github.com/deppfellow/subscribe-forwarder/internal/model"
)

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		kind  errs.Kind
		email string
	}{
		{name: "valid", body: `{"email":"a@b.co"}`, kind: errs.KindUnknown, email: "a@b.co"},
		{name: "extra fields ignored", body: `{"email":"a@b.co","name":"x"}`, kind: errs.KindUnknown, email: "a@b.co"},
		{name: "missing email", body: `{}`, kind: errs.KindValidation},
		{name: "empty email", body: `{"email":""}`, kind: errs.KindValidation},
		{name: "null body", body: `null`, kind: errs.KindValidation},
		{name: "array body", body: `[]`, kind: errs.KindValidation},
		{name: "string body", body: `"hello"`, kind: errs.KindValidation},
		{name: "number body", body: `123`, kind: errs.KindValidation},
		{name: "false email", body: `{"email":false}`, kind: errs.KindValidation},
		{name: "zero email", body: `{"email":0}`, kind: errs.KindValidation},
		{name: "null email", body: `{"email":null}`, kind: errs.KindValidation},
		{name: "trailing garbage", body: `{"email":"a@b.co"} trailing-garbage`, kind: errs.KindTransport},
		{name: "two objects", body: `{"email":"a"}{"email":"b"}`, kind: errs.KindTransport},
		{name: "true email", body: `{"email":true}`, kind: errs.KindTransport},
		{name: "malformed json", body: `{"email":`, kind: errs.KindTransport},
		{name: "not json", body: `email=a@b.co`, kind: errs.KindTransport},
		{name: "wrong type", body: `{"email":42}`, kind: errs.KindTransport},
		{name: "empty body", body: ``, kind: errs.KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &model.SubscribeRequest{}
			err := BindAndValidate(newContext(tt.body), req)

			if tt.kind == errs.KindUnknown {
				require.NoError(t, err)
				assert.Equal(t, tt.email, req.Email)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.kind, errs.KindOf(err))
		})
	}
}

func TestBindAndValidateReportsField(t *testing.T) {
	err := BindAndValidate(newContext(`{}`), &model.SubscribeRequest{})

	var failure *errs.Failure
	require.True(t, errors.As(err, &failure))
	require.Len(t, failure.Fields, 1)
	assert.Equal(t, "email", failure.Fields[0].Field)
	assert.Equal(t, "is required", failure.Fields[0].Error)
}

func TestBindAndValidateUnwrapsDecodeErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"email":42}`), &model.SubscribeRequest{})

	var typeErr *json.UnmarshalTypeError
	assert.True(t, errors.As(err, &typeErr))

	err = BindAndValidate(newContext(``), &model.SubscribeRequest{})
	assert.True(t, errors.Is(err, io.EOF))

	err = BindAndValidate(newContext(`{"email":"a"} x`), &model.SubscribeRequest{})
	assert.True(t, errors.Is(err, jsonutil.ErrTrailingData))
}

type customPayload struct{}

func (customPayload) Validate() error {
	return CustomValidationErrors{{Field: "email", Message: "is blocked"}}
}

func TestExtractCustomValidationErrors(t *testing.T) {
	fields := extractValidationError(customPayload{}.Validate())

	assert.Equal(t, []errs.FieldError{{Field: "email", Error: "is blocked"}}, fields)
}
