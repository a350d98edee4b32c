package pipeline

import "errors"

var (
	// ErrNoAdapters indicates that the pipeline was built without sources.
	ErrNoAdapters = errors.New("no source adapters configured")

	// ErrCommitFailed indicates that the cycle's storage commit failed.
	// The cycle aborts; a retried run is safe because upserts are
	// idempotent on record ID.
	ErrCommitFailed = errors.New("cycle commit failed")
)
