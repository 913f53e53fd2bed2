package storage

import "errors"

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrModified is returned when a guarded update matched zero rows:
	// the row's status changed between read and write.
	ErrModified = errors.New("concurrent modification")
)
