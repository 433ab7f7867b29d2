package errs

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies why a subscription attempt failed.
type Kind uint8

const (
	// KindUnknown is reported for nil errors and errors that are not a *Failure.
	KindUnknown Kind = iota
	// KindValidation means the inbound request is missing required input.
	KindValidation
	// KindUpstream means the subscription service answered with a non-2xx status.
	KindUpstream
	// KindTransport means the network call failed or JSON in either
	// direction could not be parsed.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Failure is the typed error returned along the subscribe path.
type Failure struct {
	Kind Kind

	// Op names the step that failed, e.g. "decode request body".
	Op string

	// Status and Detail carry the upstream response for KindUpstream.
	Status int
	Detail string

	// Fields lists the offending inputs for KindValidation.
	Fields []FieldError

	Err error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case KindValidation:
		parts := make([]string, 0, len(f.Fields))
		for _, field := range f.Fields {
			parts = append(parts, field.Field+" "+field.Error)
		}
		return "validation failed: " + strings.Join(parts, "; ")
	case KindUpstream:
		return fmt.Sprintf("upstream error: status %d: %s", f.Status, f.Detail)
	default:
		if f.Err == nil {
			return f.Op
		}
		return f.Op + ": " + f.Err.Error()
	}
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewValidationFailure reports missing or invalid request input.
func NewValidationFailure(fields []FieldError) *Failure {
	return &Failure{
		Kind:   KindValidation,
		Op:     "validate request",
		Fields: fields,
	}
}

// NewUpstreamFailure reports a non-2xx upstream response. detail is the raw
// response text.
func NewUpstreamFailure(status int, detail string) *Failure {
	return &Failure{
		Kind:   KindUpstream,
		Op:     "call upstream",
		Status: status,
		Detail: detail,
		Err:    pkgerrors.Errorf("upstream responded with status %d", status),
	}
}

// NewTransportFailure reports a network or JSON failure during op.
// err is annotated with a stack trace for logging.
func NewTransportFailure(op string, err error) *Failure {
	return &Failure{
		Kind: KindTransport,
		Op:   op,
		Err:  pkgerrors.WithStack(err),
	}
}

// KindOf returns the Kind of the first *Failure in err's chain.
func KindOf(err error) Kind {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Kind
	}
	return KindUnknown
}
