package chain

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("chain configuration error")

	// ErrMarkersNotFound is reported by a strict ListParser when the reply
	// has no well-formed marker pair.
	ErrMarkersNotFound = errors.New("marker tags not found")
)

// ConfigurationError reports a defect in how a chain was wired or fed,
// such as an unknown chat role. It is never worth retrying.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// MissingPlaceholderError is returned when a template references a
// placeholder that the inputs do not provide.
type MissingPlaceholderError struct {
	Name string
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("configuration error: missing value for placeholder {%s}", e.Name)
}

// Unwrap exposes the ConfigurationError kind.
func (e *MissingPlaceholderError) Unwrap() error {
	return &ConfigurationError{Reason: fmt.Sprintf("missing value for placeholder {%s}", e.Name)}
}

// ExtractionError is returned by a strict ListParser.
type ExtractionError struct {
	Tag string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting <%s> list: %v", e.Tag, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
