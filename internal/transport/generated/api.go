// Package generated provides primitives to interact with the openapi HTTP API.
// Kept in the oapi-codegen chi-server layout; the contract lives in api/openapi.yaml.
package generated

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Defines values for ErrorResponseCode.
const (
	ErrorResponseCodeBadRequest             ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized           ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInvalidQuery           ErrorResponseCode = "invalid_query"
	ErrorResponseCodeInvalidTopK            ErrorResponseCode = "invalid_top_k"
	ErrorResponseCodeUnsupportedLocale      ErrorResponseCode = "unsupported_locale"
	ErrorResponseCodeEmbeddingProviderError ErrorResponseCode = "embedding_provider_error"
	ErrorResponseCodeRetrievalFailure       ErrorResponseCode = "retrieval_failure"
	ErrorResponseCodeInternalError          ErrorResponseCode = "internal_error"
)

// Defines values for HealthResponseStatus.
const (
	HealthResponseStatusOk       HealthResponseStatus = "ok"
	HealthResponseStatusDegraded HealthResponseStatus = "degraded"
	HealthResponseStatusError    HealthResponseStatus = "error"
)

// Defines values for HealthResponseChecks.
const (
	HealthResponseChecksOk      HealthResponseChecks = "ok"
	HealthResponseChecksError   HealthResponseChecks = "error"
	HealthResponseChecksPending HealthResponseChecks = "pending"
)

// DocumentResponse defines model for DocumentResponse.
type DocumentResponse struct {
	Text  string   `json:"text"`
	Score *float64 `json:"score"`
}

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// ErrorResponseCode defines model for ErrorResponse.Code.
type ErrorResponseCode string

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status HealthResponseStatus            `json:"status"`
	Checks map[string]HealthResponseChecks `json:"checks"`
}

// HealthResponseStatus defines model for HealthResponse.Status.
type HealthResponseStatus string

// HealthResponseChecks defines model for HealthResponse.Checks.
type HealthResponseChecks string

// SearchDocumentsParams defines parameters for SearchDocuments.
type SearchDocumentsParams struct {
	// Q is the free-text query.
	Q *string `form:"q,omitempty" json:"q,omitempty"`

	// K is the number of matches to return.
	K *int `form:"k,omitempty" json:"k,omitempty"`

	// L restricts matches to one locale.
	L *string `form:"l,omitempty" json:"l,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Similarity search over the corpus
	// (GET /documents)
	SearchDocuments(w http.ResponseWriter, r *http.Request, params SearchDocumentsParams)
	// Service health
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// Prometheus metrics
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// Unimplemented server implementation that returns http.StatusNotImplemented for each endpoint.
type Unimplemented struct{}

// SearchDocuments (GET /documents)
func (Unimplemented) SearchDocuments(w http.ResponseWriter, _ *http.Request, _ SearchDocumentsParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

// HealthCheck (GET /health)
func (Unimplemented) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// Metrics (GET /metrics)
func (Unimplemented) Metrics(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

// MiddlewareFunc wraps a single operation handler.
type MiddlewareFunc func(http.Handler) http.Handler

// SearchDocuments operation middleware
func (siw *ServerInterfaceWrapper) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	var err error

	var params SearchDocumentsParams
	query := r.URL.Query()

	err = runtime.BindQueryParameter("form", true, false, "q", query, &params.Q)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}

	// An empty k binds as absent so the default applies.
	if query.Get("k") != "" {
		err = runtime.BindQueryParameter("form", true, false, "k", query, &params.K)
		if err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "k", Err: err})
			return
		}
	}

	err = runtime.BindQueryParameter("form", true, false, "l", query, &params.L)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "l", Err: err})
		return
	}

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SearchDocuments(w, r, params)
	})
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

// HealthCheck operation middleware
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var handler http.Handler = http.HandlerFunc(siw.Handler.HealthCheck)
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

// Metrics operation middleware
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	var handler http.Handler = http.HandlerFunc(siw.Handler.Metrics)
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

// InvalidParamFormatError reports a query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/documents", wrapper.SearchDocuments)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health", wrapper.HealthCheck)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/metrics", wrapper.Metrics)
	})

	return r
}
