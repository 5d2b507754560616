package seed

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simplerag/internal/domain"
	"github.com/kailas-cloud/simplerag/internal/metrics"
)

// Service loads the demonstration corpus into the vector store.
// Seeding is not idempotent: every run adds a new copy under fresh ids.
type Service struct {
	store   VectorStore
	enabled bool
	logger  *zap.Logger
	done    atomic.Bool
}

// New creates a seeder. A disabled seeder reports Done without writing anything.
func New(store VectorStore, enabled bool, logger *zap.Logger) *Service {
	return &Service{store: store, enabled: enabled, logger: logger}
}

// Seed submits the whole corpus in one Add call.
func (s *Service) Seed(ctx context.Context) error {
	if !s.enabled {
		s.logger.Info("Corpus seeding disabled")
		s.done.Store(true)
		return nil
	}

	docs, err := Corpus()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSeedFailure, err)
	}

	s.logger.Info("Seeding vector store with demonstration corpus", zap.Int("documents", len(docs)))
	if err := s.store.Add(ctx, docs); err != nil {
		return fmt.Errorf("%w: add %d documents: %w", domain.ErrSeedFailure, len(docs), err)
	}

	metrics.SeedDocumentsTotal.Add(float64(len(docs)))
	s.done.Store(true)
	return nil
}

// Done reports whether Seed has completed successfully.
func (s *Service) Done() bool { return s.done.Load() }
