package simplerag

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simplerag/internal/domain"
	openaiEmb "github.com/kailas-cloud/simplerag/internal/transport/openai"
)

// Embedder converts text to a vector.
type Embedder = domain.Embedder

// BatchEmbedder vectorizes many texts in a single call.
// If the Embedder passed to WithEmbedder also implements it, Add and Seed use it.
type BatchEmbedder = domain.BatchEmbedder

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult = domain.EmbeddingResult

// BatchEmbeddingResult carries vectors in input order and aggregate token usage.
type BatchEmbeddingResult = domain.BatchEmbeddingResult

// OpenAIOption configures NewOpenAIEmbedder.
type OpenAIOption func(*openaiEmb.Config)

// WithBaseURL points the embedder at an OpenAI-compatible endpoint.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openaiEmb.Config) { c.BaseURL = url }
}

// WithRequestTimeout bounds every embedding request.
func WithRequestTimeout(d time.Duration) OpenAIOption {
	return func(c *openaiEmb.Config) { c.Timeout = d }
}

// WithOpenAILogger logs outgoing requests at debug level.
func WithOpenAILogger(l *zap.Logger) OpenAIOption {
	return func(c *openaiEmb.Config) { c.Logger = l }
}

// NewOpenAIEmbedder returns an Embedder backed by the OpenAI embeddings API.
// dimensions <= 0 keeps the model's native size.
func NewOpenAIEmbedder(apiKey, model string, dimensions int, opts ...OpenAIOption) Embedder {
	cfg := &openaiEmb.Config{
		APIKey:     apiKey,
		Model:      model,
		Dimensions: dimensions,
		Provider:   "openai",
	}
	for _, o := range opts {
		o(cfg)
	}
	return openaiEmb.NewEmbedder(cfg)
}
