package store

import (
	"github.com/pkg/errors"
)

// ErrNotConfigured is returned when no database connection was set up.
var ErrNotConfigured = errors.New("database not available")

// StorageError reports a failed store operation. It is never retried.
type StorageError struct {
	Op       string
	Category string
	Err      error
}

func (e *StorageError) Error() string {
	if e.Category == "" {
		return "store: " + e.Op + ": " + e.Err.Error()
	}
	return "store: " + e.Op + " " + e.Category + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
