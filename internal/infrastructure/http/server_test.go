package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/0xcro3dile/companyqa/internal/adapters/passagedb"
	"github.com/0xcro3dile/companyqa/internal/domain/entities"
	"github.com/0xcro3dile/companyqa/internal/domain/usecases"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (s stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (stubEmbedder) Dimension() int { return 2 }

type stubExtractor struct {
	answer string
}

func (s stubExtractor) Extract(ctx context.Context, question, passage string) (entities.Extraction, error) {
	return entities.Extraction{Answer: s.answer, Score: 0.9}, nil
}

type stubSource struct {
	records []entities.Record
}

func (s stubSource) Read(ctx context.Context) ([]entities.Record, int, error) {
	return s.records, 0, nil
}

func newTestServer(records ...entities.Record) *Server {
	store := passagedb.NewMemoryStore(2)
	embedder := stubEmbedder{}
	ingestUC := usecases.NewIngestUseCase(stubSource{records: records}, embedder, store)
	queryUC := usecases.NewQueryUseCase(embedder, store, stubExtractor{answer: "CA"})
	if len(records) > 0 {
		ingestUC.Run(context.Background())
	}
	return NewServer(queryUC, ingestUC, store, ":0")
}

func TestHandleAsk_Answered(t *testing.T) {
	server := newTestServer(entities.Record{Name: "Acme", HQState: "CA", Revenue: "10", Employees: "500"})

	req := httptest.NewRequest(http.MethodPost, "/api/ask",
		strings.NewReader(`{"question":"What state is Acme headquartered in?"}`))
	w := httptest.NewRecorder()
	server.handleAsk(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp askResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Answer != "CA" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.SourceName != "Acme" {
		t.Errorf("source name = %q", resp.SourceName)
	}
}

func TestHandleAsk_EmptyStoreIsNotFound(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/ask",
		strings.NewReader(`{"question":"anything?"}`))
	w := httptest.NewRecorder()
	server.handleAsk(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleAsk_RejectsMissingQuestion(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	server.handleAsk(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleAsk_RejectsGet(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
	w := httptest.NewRecorder()
	server.handleAsk(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestHandleReindex_ReportsCounts(t *testing.T) {
	server := newTestServer(
		entities.Record{Name: "Acme", Revenue: "10", Employees: "500"},
		entities.Record{Name: "Globex", Revenue: "20", Employees: "900"},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/reindex", nil)
	w := httptest.NewRecorder()
	server.handleReindex(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]int
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["loaded"] != 2 {
		t.Errorf("loaded = %d, want 2", resp["loaded"])
	}
}

func TestHandleHealth_IncludesPassageCount(t *testing.T) {
	server := newTestServer(entities.Record{Name: "Acme", Revenue: "10", Employees: "500"})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	server.handleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]any
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["status"] != "ok" {
		t.Errorf("status field = %v", resp["status"])
	}
	if resp["passages"].(float64) != 1 {
		t.Errorf("passages = %v, want 1", resp["passages"])
	}
}
