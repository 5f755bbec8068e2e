package model

import "errors"

// Core error taxonomy. Handlers map these to HTTP statuses: invalid input →
// 400, missing entities → 404, upstream/storage failures → 500 with the cause
// logged but never leaked to the caller.
var (
	// ErrSourceUnavailable means the upstream metadata fetch failed
	// (transport, auth, or 5xx). Retryable by the caller.
	ErrSourceUnavailable = errors.New("metadata source unavailable")

	// ErrInvalidRegion means the upstream rejected the region code.
	ErrInvalidRegion = errors.New("invalid region code")

	// ErrInvalidCategory means the upstream rejected the category ID.
	ErrInvalidCategory = errors.New("invalid category id")

	// ErrNotFound means a referenced entity (ledger entry, snapshot,
	// topic) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoSamples means a baseline was requested over an empty batch.
	ErrNoSamples = errors.New("at least one sample required")
)
