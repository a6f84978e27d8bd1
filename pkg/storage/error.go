package storage

import "errors"

// ErrInvalidRecord is returned when a nil or incomplete record is stored.
var ErrInvalidRecord = errors.New("invalid record")

// NotFoundError is returned when a chat doesn't exist in the store.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "chat not found"
	}

	return "chat not found: " + e.ID
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
