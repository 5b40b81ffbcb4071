package entity

import "errors"

// Sentinel errors for domain layer operations.
var (
	// ErrUnknownSource indicates a source key that is not present in the
	// registry. It is the only error that aborts an ingestion run.
	ErrUnknownSource = errors.New("unknown feed source")

	// ErrDuplicateURL indicates an insert hit the unique constraint on
	// Article.URL. Callers treat it as a skip, never as a failure.
	ErrDuplicateURL = errors.New("article URL already exists")

	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")
)
