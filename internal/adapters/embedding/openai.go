package embedding

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
)

// OpenAIAdapter implements ports.Embedder over the OpenAI embeddings API.
// text-embedding-3-small accepts a dimensions parameter, so it can be pinned
// to the same 384-dimension space the rest of the system is built around.
type OpenAIAdapter struct {
	client    openai.Client
	model     string
	dimension int
}

// OpenAIConfig configures the OpenAI embedding adapter.
type OpenAIConfig struct {
	APIKeyEnv string // env var holding the key, defaults to OPENAI_API_KEY
	BaseURL   string // optional override for OpenAI-compatible servers
	Model     string
	Dimension int
}

// NewOpenAIAdapter creates an OpenAI embedding adapter.
func NewOpenAIAdapter(cfg OpenAIConfig) (*OpenAIAdapter, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = 384
	}

	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIAdapter{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}, nil
}

// Dimension returns the vector size this embedder produces.
func (a *OpenAIAdapter) Dimension() int { return a.dimension }

// Embed generates an embedding for a single text.
func (a *OpenAIAdapter) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := a.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one API call.
func (a *OpenAIAdapter) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := a.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      openai.EmbeddingModel(a.model),
		Dimensions: openai.Int(int64(a.dimension)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: calling OpenAI: %v", entities.ErrModelUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: OpenAI returned %d embeddings for %d inputs",
			entities.ErrModelUnavailable, len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		if len(vec) != a.dimension {
			return nil, fmt.Errorf("%w: model %s produced %d dimensions, want %d",
				entities.ErrDimensionMismatch, a.model, len(vec), a.dimension)
		}
		vectors[int(item.Index)] = vec
	}
	return vectors, nil
}
