package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
)

// mockExtractor implements ports.AnswerExtractor for testing.
type mockExtractor struct {
	answer string
	score  float64
	err    error
}

func (m *mockExtractor) Extract(ctx context.Context, question, passage string) (entities.Extraction, error) {
	if m.err != nil {
		return entities.Extraction{}, m.err
	}
	return entities.Extraction{Answer: m.answer, Score: m.score}, nil
}

func loadedStore(t *testing.T, embedder *mockEmbedder, records ...entities.Record) *mockStore {
	t.Helper()
	store := &mockStore{}
	source := &mockSource{records: records}
	if _, err := NewIngestUseCase(source, embedder, store).Run(context.Background()); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
	return store
}

func TestAnswer_ReturnsSpanWithSource(t *testing.T) {
	embedder := &mockEmbedder{}
	store := loadedStore(t, embedder, validRecord("Acme"))
	uc := NewQueryUseCase(embedder, store, &mockExtractor{answer: "CA", score: 0.91})

	answer, err := uc.Answer(context.Background(), "What state is Acme headquartered in?")
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if answer.Text != "CA" {
		t.Errorf("answer = %q, want CA", answer.Text)
	}
	if answer.SourceName != "Acme" {
		t.Errorf("source name = %q", answer.SourceName)
	}
	if !strings.Contains(answer.SourceText, "CA") {
		t.Errorf("source text should contain the span, got %q", answer.SourceText)
	}
	if answer.Score != 0.91 {
		t.Errorf("score = %v", answer.Score)
	}
}

func TestAnswer_EmptyStoreIsNotFound(t *testing.T) {
	uc := NewQueryUseCase(&mockEmbedder{}, &mockStore{}, &mockExtractor{answer: "CA"})

	_, err := uc.Answer(context.Background(), "anything at all?")
	if !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("expected not-found on empty store, got %v", err)
	}
}

func TestAnswer_ExtractorFailureIsNotFound(t *testing.T) {
	embedder := &mockEmbedder{}
	store := loadedStore(t, embedder, validRecord("Acme"))
	uc := NewQueryUseCase(embedder, store, &mockExtractor{err: entities.ErrExtractorUnavailable})

	_, err := uc.Answer(context.Background(), "what?")
	if !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("extractor failure must fold into not-found, got %v", err)
	}
}

func TestAnswer_BlankExtractionIsNotFound(t *testing.T) {
	embedder := &mockEmbedder{}
	store := loadedStore(t, embedder, validRecord("Acme"))
	uc := NewQueryUseCase(embedder, store, &mockExtractor{answer: "  "})

	_, err := uc.Answer(context.Background(), "what?")
	if !errors.Is(err, entities.ErrNotFound) {
		t.Fatalf("blank extraction must fold into not-found, got %v", err)
	}
}

func TestAnswer_EmbedderOutagePropagates(t *testing.T) {
	uc := NewQueryUseCase(&mockEmbedder{fail: true}, &mockStore{}, &mockExtractor{})

	_, err := uc.Answer(context.Background(), "what?")
	if !errors.Is(err, entities.ErrModelUnavailable) {
		t.Fatalf("embedder outage must propagate as a capability error, got %v", err)
	}
}

func TestRetrieve_PicksNearestRecord(t *testing.T) {
	software := validRecord("Acme")
	farming := validRecord("AgriCo")
	farming.Industry = "Agriculture"

	embedder := &mockEmbedder{vectors: map[string][]float32{
		Normalize(software):             {1, 0, 0},
		Normalize(farming):              {0, 1, 0},
		"Which company farms the land?": {0, 0.9, 0.1},
	}}
	store := loadedStore(t, embedder, software, farming)
	uc := NewQueryUseCase(embedder, store, &mockExtractor{})

	passage, err := uc.Retrieve(context.Background(), "Which company farms the land?")
	if err != nil {
		t.Fatalf("retrieve failed: %v", err)
	}
	if passage == nil || passage.Name != "AgriCo" {
		t.Errorf("expected AgriCo passage, got %+v", passage)
	}
}

func TestRetrieve_EmptyStoreReturnsNil(t *testing.T) {
	uc := NewQueryUseCase(&mockEmbedder{}, &mockStore{}, &mockExtractor{})

	passage, err := uc.Retrieve(context.Background(), "anything?")
	if err != nil {
		t.Fatalf("retrieve on empty store must not error: %v", err)
	}
	if passage != nil {
		t.Errorf("expected nil passage, got %+v", passage)
	}
}
