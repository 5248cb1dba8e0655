package store

import "errors"

var (
	// ErrVersionConflict rejects a commit whose base version no longer
	// matches the stored row.
	ErrVersionConflict = errors.New("entity version conflict")

	// ErrExecutingQuery wraps database-level failures.
	ErrExecutingQuery = errors.New("error executing query")
)
