package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simplerag/internal/domain"
	"github.com/kailas-cloud/simplerag/internal/domain/locale"
	"github.com/kailas-cloud/simplerag/internal/domain/search/filter"
	"github.com/kailas-cloud/simplerag/internal/domain/search/request"
	"github.com/kailas-cloud/simplerag/internal/domain/search/result"
	"github.com/kailas-cloud/simplerag/internal/logger"
	"github.com/kailas-cloud/simplerag/internal/metrics"
)

// Service runs locale-scoped similarity searches against the vector store.
type Service struct {
	store VectorStore
}

// New creates a search service.
func New(store VectorStore) *Service {
	return &Service{store: store}
}

// Search returns up to topK documents most similar to text, ordered as the store ranked them.
// A nil topK means request.DefaultTopK; the zero Locale searches every locale.
// The returned slice is never nil on success.
func (s *Service) Search(
	ctx context.Context, text string, topK *int, loc locale.Locale,
) ([]result.ScoredMatch, error) {
	label := localeLabel(loc)
	ctx = logger.With(ctx, zap.String("locale", label))

	matches, err := s.search(ctx, text, topK, loc)
	metrics.SearchRequestsTotal.WithLabelValues(label, metrics.SearchStatus(err)).Inc()
	if err != nil {
		logger.FromContext(ctx).Debug("Search failed", zap.Error(err))
		return nil, err
	}
	metrics.SearchResults.Observe(float64(len(matches)))
	return matches, nil
}

func (s *Service) search(
	ctx context.Context, text string, topK *int, loc locale.Locale,
) ([]result.ScoredMatch, error) {
	req, err := request.New(text, topK, filter.ForLocale(loc))
	if err != nil {
		return nil, err
	}

	matches, err := s.store.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailure, err)
	}
	if matches == nil {
		return []result.ScoredMatch{}, nil
	}
	if len(matches) > req.TopK() {
		matches = matches[:req.TopK()]
	}
	return matches, nil
}

// ParseLocale resolves a raw locale tag. A rejected tag never reaches Search,
// so it is counted here under the "unsupported" locale label.
func (s *Service) ParseLocale(ctx context.Context, tag string) (locale.Locale, error) {
	l, err := locale.Parse(tag)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(unsupportedLabel, metrics.SearchStatus(err)).Inc()
		logger.FromContext(ctx).Debug("Locale rejected", zap.String("tag", tag))
		return "", err
	}
	return l, nil
}

const unsupportedLabel = "unsupported"

func localeLabel(l locale.Locale) string {
	if l.IsZero() {
		return "any"
	}
	return l.String()
}
