// Package extractor provides the extractive QA adapter.
// Clean Architecture: Adapter implementing ports.AnswerExtractor.
// It speaks the HuggingFace question-answering inference protocol; any
// server hosting a squad-tuned model behind that shape works.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
)

// HFAdapter implements ports.AnswerExtractor against an HTTP inference
// endpoint serving a question-answering pipeline.
type HFAdapter struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewHFAdapter creates a new extractive QA adapter.
func NewHFAdapter(baseURL, model string) *HFAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}
	if model == "" {
		model = "deepset/roberta-base-squad2"
	}
	return &HFAdapter{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// qaRequest is the question-answering inference request format.
type qaRequest struct {
	Inputs qaInputs `json:"inputs"`
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// qaResponse is the question-answering inference response format.
type qaResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// Extract locates the answer span for the question within the passage.
func (a *HFAdapter) Extract(ctx context.Context, question, passage string) (entities.Extraction, error) {
	reqBody := qaRequest{
		Inputs: qaInputs{
			Question: question,
			Context:  passage,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return entities.Extraction{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", a.baseURL, a.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return entities.Extraction{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return entities.Extraction{}, fmt.Errorf("%w: calling QA model: %v", entities.ErrExtractorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entities.Extraction{}, fmt.Errorf("%w: QA model returned status %d", entities.ErrExtractorUnavailable, resp.StatusCode)
	}

	var qaResp qaResponse
	if err := json.NewDecoder(resp.Body).Decode(&qaResp); err != nil {
		return entities.Extraction{}, fmt.Errorf("decoding response: %w", err)
	}

	return entities.Extraction{
		Answer: qaResp.Answer,
		Score:  qaResp.Score,
	}, nil
}
