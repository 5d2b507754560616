package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/simplerag/internal/domain"
	"github.com/kailas-cloud/simplerag/internal/domain/locale"
	"github.com/kailas-cloud/simplerag/internal/domain/search/result"
	gen "github.com/kailas-cloud/simplerag/internal/transport/generated"
	healthuc "github.com/kailas-cloud/simplerag/internal/usecase/health"
	searchuc "github.com/kailas-cloud/simplerag/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements generated.ServerInterface for the chi router.
type Server struct {
	gen.Unimplemented
	search        *searchuc.Service
	health        *healthuc.Service
	metrics       http.Handler
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		search:  search,
		health:  health,
		metrics: promhttp.Handler(),
		logger:  logger,
	}
	// Order matters: a provider failure is also wrapped as a retrieval failure.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, gen.ErrorResponseCodeInvalidQuery),
		sentinelHandler(domain.ErrInvalidTopK, http.StatusBadRequest, gen.ErrorResponseCodeInvalidTopK),
		sentinelHandler(domain.ErrUnsupportedLocale, http.StatusBadRequest, gen.ErrorResponseCodeUnsupportedLocale),
		sentinelHandler(domain.ErrEmbeddingProviderError,
			http.StatusBadGateway, gen.ErrorResponseCodeEmbeddingProviderError),
		sentinelHandler(domain.ErrRetrievalFailure, http.StatusBadGateway, gen.ErrorResponseCodeRetrievalFailure),
	}
	return s
}

// SearchDocuments handles GET /documents.
func (s *Server) SearchDocuments(w http.ResponseWriter, r *http.Request, params gen.SearchDocumentsParams) {
	var text string
	if params.Q != nil {
		text = *params.Q
	}

	var loc locale.Locale
	if params.L != nil && *params.L != "" {
		parsed, err := s.search.ParseLocale(r.Context(), *params.L)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		loc = parsed
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	matches, err := s.search.Search(ctx, text, params.K, loc)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, documentsToGen(result.Project(matches)))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: gen.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ServeHTTP(w, r)
}

// ParamErrorHandler answers query parameters that fail to bind, e.g. k=abc.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var pe *gen.InvalidParamFormatError
	if errors.As(err, &pe) && pe.ParamName == "k" {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeInvalidTopK, "k must be an integer")
		return
	}
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "invalid request")
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidTopK,
		domain.ErrUnsupportedLocale,
		domain.ErrEmbeddingProviderError,
		domain.ErrRetrievalFailure,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			if s == domain.ErrUnsupportedLocale {
				return s.Error() + ", expected one of: " + supportedLocales
			}
			return s.Error()
		}
	}
	return "internal error"
}

var supportedLocales = func() string {
	all := locale.All()
	tags := make([]string, len(all))
	for i, l := range all {
		tags[i] = l.String()
	}
	return strings.Join(tags, ", ")
}()

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("domain error", zap.String("path", r.URL.Path), zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

func documentsToGen(docs []result.DocumentResponse) []gen.DocumentResponse {
	out := make([]gen.DocumentResponse, len(docs))
	for i, d := range docs {
		out[i] = gen.DocumentResponse{Text: d.Text, Score: d.Score}
	}
	return out
}
