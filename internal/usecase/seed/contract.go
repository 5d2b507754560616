package seed

import (
	"context"

	"github.com/kailas-cloud/simplerag/internal/domain/document"
)

// VectorStore accepts documents for embedding and indexing.
type VectorStore interface {
	Add(ctx context.Context, docs []document.Document) error
}
