// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
	"github.com/0xcro3dile/companyqa/internal/domain/ports"
	"github.com/0xcro3dile/companyqa/internal/domain/usecases"
)

// Server exposes the question-answering and admin API.
type Server struct {
	queryUseCase  *usecases.QueryUseCase
	ingestUseCase *usecases.IngestUseCase
	store         ports.PassageStore
	addr          string
}

// NewServer creates a new HTTP server.
func NewServer(
	queryUC *usecases.QueryUseCase,
	ingestUC *usecases.IngestUseCase,
	store ports.PassageStore,
	addr string,
) *Server {
	return &Server{
		queryUseCase:  queryUC,
		ingestUseCase: ingestUC,
		store:         store,
		addr:          addr,
	}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	// UI
	mux.HandleFunc("/", s.handleIndex)

	// API
	mux.HandleFunc("/api/ask", s.handleAsk)
	mux.HandleFunc("/api/reindex", s.handleReindex)
	mux.HandleFunc("/api/health", s.handleHealth)

	server := &http.Server{
		Addr:         s.addr,
		Handler:      corsMiddleware(loggingMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls carry their own timeouts
	}

	log.Printf("[INFO] companyqa server starting on %s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// askRequest is the /api/ask request body.
type askRequest struct {
	Question string `json:"question"`
}

// askResponse is the /api/ask success body.
type askResponse struct {
	Answer     string  `json:"answer"`
	Source     string  `json:"source"`
	SourceName string  `json:"source_name"`
	Score      float64 `json:"score"`
}

// handleAsk answers one question.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question required"})
		return
	}

	answer, err := s.queryUseCase.Answer(r.Context(), req.Question)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
			return
		}
		// Capability outage: generic failure, details stay in the logs.
		log.Printf("[ERROR] answering failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "search unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:     answer.Text,
		Source:     answer.SourceText,
		SourceName: answer.SourceName,
		Score:      answer.Score,
	})
}

// handleReindex triggers a full rebuild of the passage store from the
// current catalog file. Operator action, not a steady-state operation.
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, err := s.ingestUseCase.Run(r.Context())
	if err != nil {
		log.Printf("[ERROR] reindex failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "reindex failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"loaded":  summary.Loaded,
		"skipped": summary.Skipped,
	})
}

// handleHealth returns server health plus the passage count.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "passages": count})
}

// handleIndex renders the ask form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	indexTemplate.Execute(w, nil)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Company Q&amp;A</title>
</head>
<body>
    <div class="container">
        <header>
            <h1>Company Q&amp;A</h1>
            <p class="subtitle">Ask a specific question about the company catalog</p>
        </header>
        <main>
            <form id="ask-form" onsubmit="ask(event)">
                <input type="text" id="question" placeholder="What state is Acme headquartered in?" autocomplete="off" required>
                <button type="submit">Ask</button>
            </form>
            <div id="result"></div>
        </main>
    </div>
    <script>
        async function ask(e) {
            e.preventDefault();
            const q = document.getElementById('question').value.trim();
            const result = document.getElementById('result');
            if (!q) return;
            result.textContent = 'Analyzing...';
            try {
                const resp = await fetch('/api/ask', {
                    method: 'POST',
                    headers: {'Content-Type': 'application/json'},
                    body: JSON.stringify({question: q})
                });
                const data = await resp.json();
                if (!resp.ok) {
                    result.textContent = data.error === 'not_found'
                        ? "I couldn't find an answer to that."
                        : 'Something went wrong, try again later.';
                    return;
                }
                result.innerHTML = '';
                const answer = document.createElement('p');
                answer.textContent = 'Answer: ' + data.answer;
                const source = document.createElement('details');
                const summary = document.createElement('summary');
                summary.textContent = 'Show evidence (' + data.source_name + ')';
                const text = document.createElement('p');
                text.textContent = data.source;
                source.appendChild(summary);
                source.appendChild(text);
                result.appendChild(answer);
                result.appendChild(source);
            } catch (err) {
                result.textContent = 'Connection error';
            }
        }
    </script>
</body>
</html>`))

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.New().String()[:8]
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s %s %v", reqID, r.Method, r.URL.Path, time.Since(start))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			return
		}
		next.ServeHTTP(w, r)
	})
}
