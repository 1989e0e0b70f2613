package usecases

import (
	"context"
	"fmt"
	"log"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
	"github.com/0xcro3dile/companyqa/internal/domain/ports"
)

// IngestUseCase rebuilds the passage store from the record source.
// Single Responsibility: Only ingestion logic.
type IngestUseCase struct {
	source   ports.RecordSource
	embedder ports.Embedder
	store    ports.PassageStore
}

// NewIngestUseCase creates an IngestUseCase with injected dependencies.
// Dependency Injection: Adapters are passed in, not created here.
func NewIngestUseCase(source ports.RecordSource, embedder ports.Embedder, store ports.PassageStore) *IngestUseCase {
	return &IngestUseCase{
		source:   source,
		embedder: embedder,
		store:    store,
	}
}

// Run performs one full reindex: read records, normalize, embed the whole
// batch, then replace the store contents in a single ResetAndLoad. The
// store is not touched until every surviving record has an embedding, so an
// embedding outage mid-run leaves the previous index in place. A malformed
// record is skipped and counted, never fatal.
func (uc *IngestUseCase) Run(ctx context.Context) (*entities.IngestSummary, error) {
	records, skipped, err := uc.source.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	kept := make([]entities.Record, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			log.Printf("[WARN] skipping malformed record %q: %v", rec.Name, err)
			skipped++
			continue
		}
		kept = append(kept, rec)
	}

	texts := make([]string, len(kept))
	for i, rec := range kept {
		texts[i] = Normalize(rec)
	}

	embeddings, err := uc.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding passages: %w", err)
	}

	passages := make([]entities.Passage, len(kept))
	for i, rec := range kept {
		passages[i] = entities.Passage{
			Name:      rec.Name,
			Text:      texts[i],
			Embedding: embeddings[i],
		}
	}

	loaded, err := uc.store.ResetAndLoad(ctx, passages)
	if err != nil {
		return nil, fmt.Errorf("loading passages: %w", err)
	}

	log.Printf("[INFO] ingestion complete: %d loaded, %d skipped", loaded, skipped)
	return &entities.IngestSummary{Loaded: loaded, Skipped: skipped}, nil
}
