package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyReply is returned when a provider answers successfully but
// with no usable content.
var ErrEmptyReply = errors.New("provider returned no content")

// InvocationError reports a failed model call: transport errors,
// timeouts, non-2xx replies, or payloads that cannot be decoded.
type InvocationError struct {
	Provider   string
	Model      string
	StatusCode int
	Err        error
}

func (e *InvocationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s/%s invocation failed (status %d): %v", e.Provider, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s/%s invocation failed: %v", e.Provider, e.Model, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// ErrorResponse is the JSON error body returned by the API.
type ErrorResponse struct {
	Error string `json:"error"`
}
