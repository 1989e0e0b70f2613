// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
)

// Embedder converts text into a fixed-dimension vector.
// Implementations wrap an external model; deterministic output for
// deterministic input within one deployment, and safe for concurrent
// read-only use.
type Embedder interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, preserving order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector size this embedder produces.
	Dimension() int
}

// AnswerExtractor locates a verbatim answer span inside a passage.
// Pure function of (question, context) from the caller's view.
type AnswerExtractor interface {
	Extract(ctx context.Context, question, passage string) (entities.Extraction, error)
}

// PassageStore persists passages and answers nearest-neighbor queries.
type PassageStore interface {
	// ResetAndLoad atomically replaces all stored passages with the given
	// set and returns the number inserted. Safe to invoke repeatedly: the
	// final state reflects exactly the last successful call. On failure the
	// store may be empty or partially loaded; the caller re-runs to recover.
	ResetAndLoad(ctx context.Context, passages []entities.Passage) (int, error)

	// Nearest returns up to k passages by ascending L2 distance to the
	// query vector, ties broken by lowest id. An empty store yields an
	// empty slice, never an error.
	Nearest(ctx context.Context, vector []float32, k int) ([]entities.Match, error)

	// Count returns the number of stored passages.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying storage resources.
	Close() error
}

// RecordSource reads the company catalog from its external tabular form.
type RecordSource interface {
	// Read returns all well-formed records plus the number of rows that
	// were skipped as malformed. A missing or unparseable source returns
	// an error wrapping entities.ErrDataSource.
	Read(ctx context.Context) ([]entities.Record, int, error)
}

// ReindexTrigger observes the data source and signals when a reindex is due.
type ReindexTrigger interface {
	// Watch emits one signal per settled change of the source until ctx is
	// cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)

	// Stop stops watching.
	Stop() error
}
