package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simplerag/internal/db"
	"github.com/kailas-cloud/simplerag/internal/domain/locale"
)

// Reserved hash fields. Metadata keys may not start with an underscore.
const (
	fieldContent = "__content"
	fieldVector  = "__vector"
	vectorAlias  = "vector"
)

// HNSWConfig holds HNSW index tuning parameters. Zero values use server defaults.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

func (s *Store) indexName() string { return s.cfg.KeyPrefix + "docs:idx" }

func (s *Store) docPrefix() string { return s.cfg.KeyPrefix + "docs:" }

func (s *Store) docKey(id string) string { return s.docPrefix() + id }

// buildIndex declares every filterable metadata key as a case-sensitive TAG.
func (s *Store) buildIndex() (*db.IndexDefinition, error) {
	b := db.NewIndex(s.indexName()).Prefix(s.docPrefix())
	for _, f := range s.cfg.TagFields {
		b = b.Tag(f)
	}
	b = b.VectorHNSW(fieldVector, vectorAlias, s.cfg.Dimensions, db.DistanceCosine, s.cfg.HNSW.M, s.cfg.HNSW.EFConstruct)
	def, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build index definition: %w", err)
	}
	return def, nil
}

// EnsureIndex creates the document index unless it already exists.
// Losing a creation race to another replica counts as success.
func (s *Store) EnsureIndex(ctx context.Context) error {
	def, err := s.buildIndex()
	if err != nil {
		return err
	}
	exists, err := s.store.IndexExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", def.Name, err)
	}
	if exists {
		s.logger.Debug("Index already exists", zapIndex(def.Name))
		return nil
	}
	if err := s.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			s.logger.Debug("Index created concurrently", zapIndex(def.Name))
			return nil
		}
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	s.logger.Info("Index created", zapIndex(def.Name), zap.Stringer("definition", def))
	return nil
}

func defaultTagFields() []string { return []string{locale.Key} }
