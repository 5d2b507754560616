package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/simplerag/internal/domain"
	"github.com/kailas-cloud/simplerag/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

type embeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// embeddingResponse mirrors the OpenAI-compatible API embedding response.
type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions"`
}

// fakeAPI answers each input with a vector whose first component is its position.
// reverse lists the data entries back to front to exercise index handling.
func fakeAPI(t *testing.T, reverse bool, got *embeddingRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if got != nil {
			*got = req
		}

		resp := embeddingResponse{Object: "list", Model: req.Model}
		for i := range req.Input {
			resp.Data = append(resp.Data, embeddingData{
				Object:    "embedding",
				Embedding: []float32{float32(i), 0.5},
				Index:     i,
			})
		}
		if reverse {
			for i, j := 0, len(resp.Data)-1; i < j; i, j = i+1, j-1 {
				resp.Data[i], resp.Data[j] = resp.Data[j], resp.Data[i]
			}
		}
		resp.Usage.PromptTokens = 4 * len(req.Input)
		resp.Usage.TotalTokens = 4 * len(req.Input)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestEmbedder(url string, logger *zap.Logger) *Embedder {
	return NewEmbedder(&Config{
		APIKey:     "test-key",
		BaseURL:    url,
		Model:      "text-embedding-3-small",
		Dimensions: 2,
		Provider:   "openai",
		Logger:     logger,
	})
}

func TestEmbedder_Embed(t *testing.T) {
	var req embeddingRequest
	server := fakeAPI(t, false, &req)
	defer server.Close()

	result, err := newTestEmbedder(server.URL, zap.NewNop()).Embed(context.Background(), "vela de cera")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(result.Embedding) != 2 || result.Embedding[1] != 0.5 {
		t.Errorf("unexpected embedding %v", result.Embedding)
	}
	if result.PromptTokens != 4 || result.TotalTokens != 4 {
		t.Errorf("usage = %d/%d, want 4/4", result.PromptTokens, result.TotalTokens)
	}
	if req.Model != "text-embedding-3-small" || req.Dimensions != 2 {
		t.Errorf("request model=%q dims=%d", req.Model, req.Dimensions)
	}
	if len(req.Input) != 1 || req.Input[0] != "vela de cera" {
		t.Errorf("request input = %v", req.Input)
	}
}

func TestEmbedder_BatchEmbed(t *testing.T) {
	for _, reverse := range []bool{false, true} {
		server := fakeAPI(t, reverse, nil)

		res, err := newTestEmbedder(server.URL, zap.NewNop()).
			BatchEmbed(context.Background(), []string{"a", "b", "c"})
		server.Close()
		if err != nil {
			t.Fatalf("BatchEmbed failed: %v", err)
		}

		if len(res.Embeddings) != 3 {
			t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
		}
		for i, e := range res.Embeddings {
			if e[0] != float32(i) {
				t.Errorf("reverse=%v: embedding %d has index marker %v", reverse, i, e[0])
			}
		}
		if res.TotalTokens != 12 {
			t.Errorf("TotalTokens = %d, want 12", res.TotalTokens)
		}
	}
}

func TestEmbedder_BatchEmbed_Empty(t *testing.T) {
	result, err := newTestEmbedder("http://unused", zap.NewNop()).BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Embeddings != nil {
		t.Errorf("expected nil embeddings for empty input, got %v", result.Embeddings)
	}
}

func TestEmbedder_BatchEmbed_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := embeddingResponse{
			Object: "list",
			Data:   []embeddingData{{Object: "embedding", Embedding: []float32{0.1}, Index: 0}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	_, err := newTestEmbedder(server.URL, zap.NewNop()).BatchEmbed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestEmbedder_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
	}{
		{"rate limited", http.StatusTooManyRequests, map[string]any{
			"error": map[string]any{"message": "rate limit exceeded", "type": "rate_limit_error"},
		}},
		{"detail body", http.StatusBadRequest, map[string]any{"detail": "input too long"}},
		{"empty data", http.StatusOK, embeddingResponse{Object: "list"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer server.Close()

			_, err := newTestEmbedder(server.URL, zap.NewNop()).Embed(context.Background(), "hello")
			if !errors.Is(err, domain.ErrEmbeddingProviderError) {
				t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
			}
		})
	}
}

func TestEmbedder_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestEmbedder(url, zap.NewNop()).Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestEmbedder_LogsOutgoingRequests(t *testing.T) {
	server := fakeAPI(t, false, nil)
	defer server.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	if _, err := newTestEmbedder(server.URL, zap.New(core)).Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	entries := logs.FilterMessage("Embedding provider request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != http.MethodPost {
		t.Errorf("method = %v", fields["method"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Errorf("status = %v", fields["status"])
	}
	if fields["body_bytes"].(int64) <= 0 {
		t.Errorf("body_bytes = %v", fields["body_bytes"])
	}
}

func TestEmbedder_NoRequestLogsAboveDebug(t *testing.T) {
	server := fakeAPI(t, false, nil)
	defer server.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	if _, err := newTestEmbedder(server.URL, zap.New(core)).Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no logs at info level, got %d", logs.Len())
	}
}
