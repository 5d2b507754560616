package simplerag

import "github.com/kailas-cloud/simplerag/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrInvalidTopK            = domain.ErrInvalidTopK
	ErrUnsupportedLocale      = domain.ErrUnsupportedLocale
	ErrInvalidDocument        = domain.ErrInvalidDocument
	ErrRetrievalFailure       = domain.ErrRetrievalFailure
	ErrSeedFailure            = domain.ErrSeedFailure
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrEmbedderNotConfigured  = domain.ErrEmbedderNotConfigured
)
