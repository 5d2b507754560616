package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or oversized query text.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidTopK signals a result count below 1.
	ErrInvalidTopK = errors.New("invalid top_k")
	// ErrUnsupportedLocale signals a locale token outside the supported set.
	ErrUnsupportedLocale = errors.New("unsupported locale")
	// ErrInvalidDocument signals a document that cannot be stored.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrRetrievalFailure signals that the vector store failed to answer a search.
	ErrRetrievalFailure = errors.New("retrieval failure")
	// ErrSeedFailure signals that the demonstration corpus could not be stored.
	ErrSeedFailure = errors.New("seed failure")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbedderNotConfigured signals a client built without an embedder.
	ErrEmbedderNotConfigured = errors.New("embedder not configured")
)
