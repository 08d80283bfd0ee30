package client

import (
	"errors"
	"fmt"
)

// ErrBaseURLRequired is returned by New when no base URL is configured.
var ErrBaseURLRequired = errors.New("client: base url is required")

// ServerError reports a non-2xx response. Detail carries the server-provided
// message when the body has one; Fields maps per-field messages onto form
// field names.
type ServerError struct {
	StatusCode int
	Detail     string
	Fields     map[string][]string
	Body       []byte
	RequestID  string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("client: server returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("client: server returned %d", e.StatusCode)
}

// NetworkError reports a request that never produced a response.
type NetworkError struct {
	Err       error
	RequestID string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("client: request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DetailOf extracts the server-provided detail from err, if any.
func DetailOf(err error) (string, bool) {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Detail != "" {
		return serverErr.Detail, true
	}
	return "", false
}
