package kanboard

import (
	"errors"
	"fmt"
)

// ErrNoResult is returned when a response carries no usable result: the body
// was not JSON-RPC, or the result member was null or false.
var ErrNoResult = errors.New("kanboard: no result")

// RemoteError is an error reported by the Kanboard server in the response's
// "error" member.
type RemoteError struct {
	Method  string
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("kanboard: %s: %s (code %d)", e.Method, e.Message, e.Code)
	}
	return fmt.Sprintf("kanboard: %s: %s", e.Method, e.Message)
}

// TransportError wraps failures below the JSON-RPC layer: connection and TLS
// errors, and HTTP responses with a non-2xx status.
type TransportError struct {
	Method     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("kanboard: %s: HTTP %d", e.Method, e.StatusCode)
	}
	return fmt.Sprintf("kanboard: %s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
