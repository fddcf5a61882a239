package domain

import "errors"

// Sentinel errors for catalog and store operations
var (
	// ErrUpstream indicates the content API returned a non-success status
	// or was unreachable
	ErrUpstream = errors.New("upstream request failed")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrBadSnapshot indicates an import document is missing required keys
	ErrBadSnapshot = errors.New("snapshot is missing library or history")
)
