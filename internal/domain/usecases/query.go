// Package usecases - query.go handles retrieval and answer extraction.
package usecases

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
	"github.com/0xcro3dile/companyqa/internal/domain/ports"
)

// QueryUseCase answers one question end to end: embed, retrieve the single
// nearest passage, extract the answer span from it.
type QueryUseCase struct {
	embedder  ports.Embedder
	store     ports.PassageStore
	extractor ports.AnswerExtractor
}

// NewQueryUseCase creates a QueryUseCase with injected dependencies.
func NewQueryUseCase(embedder ports.Embedder, store ports.PassageStore, extractor ports.AnswerExtractor) *QueryUseCase {
	return &QueryUseCase{
		embedder:  embedder,
		store:     store,
		extractor: extractor,
	}
}

// Retrieve embeds the query and returns the nearest passage, or nil when
// the store is empty. Every call re-embeds; no caching across calls.
func (uc *QueryUseCase) Retrieve(ctx context.Context, query string) (*entities.Passage, error) {
	vector, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := uc.store.Nearest(ctx, vector, 1)
	if err != nil {
		return nil, fmt.Errorf("searching passages: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}

	p := matches[0].Passage
	return &p, nil
}

// Answer runs the two-stage cycle: retrieve, then extract. An empty store,
// an extractor failure or a blank extraction all surface as ErrNotFound;
// the stages are told apart only in the logs. An embedding or store outage
// propagates as an error for the caller to render as a generic failure.
// No retries across the stages.
func (uc *QueryUseCase) Answer(ctx context.Context, question string) (*entities.Answer, error) {
	passage, err := uc.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	if passage == nil {
		log.Printf("[INFO] no passage in store for question %q", question)
		return nil, entities.ErrNotFound
	}

	extraction, err := uc.extractor.Extract(ctx, question, passage.Text)
	if err != nil {
		log.Printf("[WARN] extraction failed for question %q: %v", question, err)
		return nil, entities.ErrNotFound
	}
	if strings.TrimSpace(extraction.Answer) == "" {
		log.Printf("[INFO] extractor returned no span for question %q", question)
		return nil, entities.ErrNotFound
	}

	return &entities.Answer{
		Text:       extraction.Answer,
		SourceText: passage.Text,
		SourceName: passage.Name,
		Score:      extraction.Score,
	}, nil
}
