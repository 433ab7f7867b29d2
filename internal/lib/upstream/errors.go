package upstream

import "errors"

// ErrHealthCheckDisabled is returned by Ping when no health URL is configured.
var ErrHealthCheckDisabled = errors.New("upstream health check disabled")

// ErrNullResponse is returned when a 2xx upstream body is the JSON literal null.
var ErrNullResponse = errors.New("upstream response body is null")
