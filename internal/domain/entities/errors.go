package entities

import "errors"

// Error taxonomy for the pipeline. Adapters wrap these with %w so callers
// can branch with errors.Is without knowing which backend produced them.
var (
	// ErrModelUnavailable means the embedding capability cannot be reached.
	// Fatal to the in-progress operation, never retried automatically.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrExtractorUnavailable means the QA capability errored or cannot be
	// reached. The orchestrator folds this into a not-found outcome.
	ErrExtractorUnavailable = errors.New("answer extractor unavailable")

	// ErrDataSource means the input file is missing or unparseable. Fatal to
	// that ingestion run; the store is left untouched.
	ErrDataSource = errors.New("data source unreadable")

	// ErrRecordMalformed marks a single row that cannot be ingested.
	ErrRecordMalformed = errors.New("record malformed")

	// ErrNotFound is the normal "no result" outcome: empty store, or no
	// usable answer for the question.
	ErrNotFound = errors.New("no answer found")

	// ErrDimensionMismatch means a passage embedding does not match the
	// store's configured dimension. This is a configuration error, not a
	// runtime-recoverable one.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)
