package search

import (
	"context"

	"github.com/kailas-cloud/simplerag/internal/domain/search/request"
	"github.com/kailas-cloud/simplerag/internal/domain/search/result"
)

// VectorStore answers similarity queries. A nil slice means no matches.
type VectorStore interface {
	Search(ctx context.Context, req *request.Request) ([]result.ScoredMatch, error)
}
