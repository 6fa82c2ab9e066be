package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique constraint (username, email)
	// would be violated.
	ErrConflict = errors.New("record already exists")
)
