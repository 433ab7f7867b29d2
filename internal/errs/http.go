package errs

import "strings"

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "email", "error": "is required" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client it should redirect somewhere.
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional "what the client should do next" instruction.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// MessageBody is the bare response shape used by MessageOnly errors and by
// successful subscribe responses alike.
type MessageBody struct {
	Message string `json:"message"`
}

// HTTPError is the main custom error type for API responses.
//
// It is designed to be serialized directly to JSON.
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST").
//   - Message: human-friendly message.
//   - Status: HTTP status code.
//   - Override: flag to let middleware decide whether to override the message.
//   - Errors: list of per-field errors (validation).
//   - Action: client instruction, action to be taken (optional).
//   - MessageOnly: render as MessageBody instead of the full shape.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`
	Action *Action      `json:"action"`

	MessageOnly bool `json:"-"`

	// cause is the technical error behind a masked client message.
	// It is logged, never serialized.
	cause error
}

// Error returns the client-facing message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the technical cause, if any, to errors.Is and errors.As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Cause returns the technical error behind this HTTPError, or nil.
func (e *HTTPError) Cause() error {
	return e.cause
}

// Is reports whether target is also a *HTTPError.
//
// It does NOT compare Code/Status/etc.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	clone := *e
	clone.Message = message
	return &clone
}

// WithCause returns a copy of this HTTPError carrying cause for logging.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	clone := *e
	clone.cause = cause
	return &clone
}

// Body returns the value the global error handler serializes.
func (e *HTTPError) Body() any {
	if e.MessageOnly {
		return MessageBody{Message: e.Message}
	}
	return e
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
