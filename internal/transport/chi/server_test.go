package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/simplerag/internal/domain"
	"github.com/kailas-cloud/simplerag/internal/domain/search/request"
	"github.com/kailas-cloud/simplerag/internal/domain/search/result"
	"github.com/kailas-cloud/simplerag/internal/metrics"
	gen "github.com/kailas-cloud/simplerag/internal/transport/generated"
	healthuc "github.com/kailas-cloud/simplerag/internal/usecase/health"
	searchuc "github.com/kailas-cloud/simplerag/internal/usecase/search"
)

// --- Stubs ---

type stubStore struct {
	matches []result.ScoredMatch
	err     error
	tokens  int
	lastReq *request.Request
}

func (s *stubStore) Search(ctx context.Context, req *request.Request) ([]result.ScoredMatch, error) {
	s.lastReq = req
	if s.tokens > 0 {
		domain.UsageFromContext(ctx).AddTokens(s.tokens)
	}
	return s.matches, s.err
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubCorpus bool

func (c stubCorpus) Done() bool { return bool(c) }

func score(v float64) *float64 { return &v }

func newTestRouter(st *stubStore, health *healthuc.Service) http.Handler {
	if health == nil {
		health = healthuc.New(stubPinger{}, nil, stubCorpus(true))
	}
	srv := NewServer(searchuc.New(st), health, zap.NewNop())
	r := gochi.NewRouter()
	return gen.HandlerWithOptions(srv, gen.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: ParamErrorHandler,
	})
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}

// --- Tests ---

func TestSearchDocuments_OK(t *testing.T) {
	st := &stubStore{
		matches: []result.ScoredMatch{
			result.New("1", "Sail", score(0.9), map[string]string{"locale": "en-US"}),
			result.New("2", "Candle", nil, nil),
		},
		tokens: 3,
	}
	rr := get(t, newTestRouter(st, nil), "/documents?q=sail&k=2&l=en-US")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `[{"text":"Sail","score":0.9},{"text":"Candle","score":null}]` {
		t.Errorf("body = %s", got)
	}
	if rr.Header().Get("X-Embedding-Tokens") != "3" {
		t.Errorf("X-Embedding-Tokens = %q", rr.Header().Get("X-Embedding-Tokens"))
	}
	if st.lastReq.TopK() != 2 {
		t.Errorf("TopK = %d, want 2", st.lastReq.TopK())
	}
	if f := st.lastReq.Filters(); f.Value() != "en-US" {
		t.Errorf("filter value = %q, want en-US", f.Value())
	}
}

func TestSearchDocuments_EmptyResultIsArray(t *testing.T) {
	rr := get(t, newTestRouter(&stubStore{}, nil), "/documents?q=nothing")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("body = %s, want []", got)
	}
	if rr.Header().Get("X-Embedding-Tokens") != "" {
		t.Error("no tokens header expected when nothing was embedded")
	}
}

func TestSearchDocuments_EmptyLocaleMeansAll(t *testing.T) {
	st := &stubStore{}
	get(t, newTestRouter(st, nil), "/documents?q=sail&l=")

	if !st.lastReq.Filters().IsEmpty() {
		t.Error("empty l must not filter")
	}
}

func TestSearchDocuments_EmptyTopKUsesDefault(t *testing.T) {
	st := &stubStore{}
	rr := get(t, newTestRouter(st, nil), "/documents?q=sail&k=")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body)
	}
	if st.lastReq.TopK() != request.DefaultTopK {
		t.Errorf("TopK = %d, want %d", st.lastReq.TopK(), request.DefaultTopK)
	}
}

func TestSearchDocuments_UnsupportedLocale(t *testing.T) {
	rejected := metrics.SearchRequestsTotal.WithLabelValues("unsupported", "unsupported_locale")
	before := testutil.ToFloat64(rejected)

	st := &stubStore{}
	rr := get(t, newTestRouter(st, nil), "/documents?q=sail&l=de-DE")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var errResp gen.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, tag := range []string{"en-US", "pt-BR", "es-MX", "fr-FR", "it-IT"} {
		if !strings.Contains(errResp.Message, tag) {
			t.Errorf("message %q does not list %s", errResp.Message, tag)
		}
	}
	if st.lastReq != nil {
		t.Error("rejected locale must not reach the store")
	}
	if got := testutil.ToFloat64(rejected); got != before+1 {
		t.Errorf("rejected counter = %v, want %v", got, before+1)
	}
}

func TestSearchDocuments_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		storeErr error
		status   int
		code     gen.ErrorResponseCode
	}{
		{"missing q", "/documents", nil, http.StatusBadRequest, gen.ErrorResponseCodeInvalidQuery},
		{"empty q", "/documents?q=", nil, http.StatusBadRequest, gen.ErrorResponseCodeInvalidQuery},
		{"too long q", "/documents?q=" + strings.Repeat("a", request.MaxQueryLength+1),
			nil, http.StatusBadRequest, gen.ErrorResponseCodeInvalidQuery},
		{"zero k", "/documents?q=sail&k=0", nil, http.StatusBadRequest, gen.ErrorResponseCodeInvalidTopK},
		{"non-numeric k", "/documents?q=sail&k=abc", nil, http.StatusBadRequest, gen.ErrorResponseCodeInvalidTopK},
		{"unknown locale", "/documents?q=sail&l=de-DE", nil, http.StatusBadRequest,
			gen.ErrorResponseCodeUnsupportedLocale},
		{"wrong case locale", "/documents?q=sail&l=pt-br", nil, http.StatusBadRequest,
			gen.ErrorResponseCodeUnsupportedLocale},
		{"store failure", "/documents?q=sail", errors.New("conn reset"), http.StatusBadGateway,
			gen.ErrorResponseCodeRetrievalFailure},
		{"provider failure", "/documents?q=sail", fmt.Errorf("embed: %w", domain.ErrEmbeddingProviderError),
			http.StatusBadGateway, gen.ErrorResponseCodeEmbeddingProviderError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(t, newTestRouter(&stubStore{err: tt.storeErr}, nil), tt.target)

			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.status, rr.Body)
			}
			var errResp gen.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if errResp.Code != tt.code {
				t.Errorf("code = %s, want %s", errResp.Code, tt.code)
			}
			if strings.Contains(errResp.Message, "conn reset") {
				t.Errorf("internal detail leaked: %q", errResp.Message)
			}
		})
	}
}

func TestHandleDomainError_Unknown(t *testing.T) {
	srv := NewServer(nil, nil, zap.NewNop())
	rr := httptest.NewRecorder()
	srv.handleDomainError(rr, httptest.NewRequest(http.MethodGet, "/documents", http.NoBody), errors.New("boom"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	var errResp gen.ErrorResponse
	_ = json.NewDecoder(rr.Body).Decode(&errResp)
	if errResp.Code != gen.ErrorResponseCodeInternalError || errResp.Message != "internal error" {
		t.Errorf("unexpected response %+v", errResp)
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name   string
		health *healthuc.Service
		status int
		body   gen.HealthResponseStatus
	}{
		{"healthy", healthuc.New(stubPinger{}, nil, stubCorpus(true)), http.StatusOK, gen.HealthResponseStatusOk},
		{"seeding", healthuc.New(stubPinger{}, nil, stubCorpus(false)),
			http.StatusServiceUnavailable, gen.HealthResponseStatusDegraded},
		{"db down", healthuc.New(stubPinger{err: errors.New("down")}, nil, stubCorpus(true)),
			http.StatusServiceUnavailable, gen.HealthResponseStatusError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(t, newTestRouter(&stubStore{}, tt.health), "/health")
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			var resp gen.HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.body {
				t.Errorf("status field = %s, want %s", resp.Status, tt.body)
			}
			if _, ok := resp.Checks["corpus"]; !ok {
				t.Error("corpus check missing")
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rr := get(t, newTestRouter(&stubStore{}, nil), "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("Content-Type = %q", rr.Header().Get("Content-Type"))
	}
}
