package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simplerag/internal/db"
	"github.com/kailas-cloud/simplerag/internal/domain"
	"github.com/kailas-cloud/simplerag/internal/domain/document"
	"github.com/kailas-cloud/simplerag/internal/domain/search/request"
	"github.com/kailas-cloud/simplerag/internal/domain/search/result"
)

// store is the consumer interface for the vector store (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	Del(ctx context.Context, keys ...string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string) (int, error)
}

// Config describes where documents live and how they are indexed.
type Config struct {
	KeyPrefix  string
	Dimensions int
	HNSW       HNSWConfig
	// TagFields are the metadata keys filters may reference. Defaults to the locale key.
	TagFields []string
}

// Store embeds documents and answers similarity queries over a db backend.
// Documents and queries use separate embedders so each can carry its own instruction and cache.
type Store struct {
	store   store
	docs    domain.Embedder
	queries domain.Embedder
	cfg     Config
	logger  *zap.Logger
}

// New creates a vector store.
func New(s store, docs, queries domain.Embedder, cfg Config, logger *zap.Logger) *Store {
	if len(cfg.TagFields) == 0 {
		cfg.TagFields = defaultTagFields()
	}
	return &Store{store: s, docs: docs, queries: queries, cfg: cfg, logger: logger}
}

// Add embeds docs in one batch and writes them in one pipelined round-trip.
func (s *Store) Add(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i := range docs {
		texts[i] = docs[i].Text()
	}

	emb, err := domain.EmbedAll(ctx, s.docs, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}

	items := make([]db.HashSetItem, len(docs))
	for i := range docs {
		vec := emb.Embeddings[i]
		if len(vec) != s.cfg.Dimensions {
			return fmt.Errorf("document %s: embedding has %d dimensions, index expects %d: %w",
				docs[i].ID(), len(vec), s.cfg.Dimensions, domain.ErrEmbeddingProviderError)
		}
		items[i] = db.HashSetItem{Key: s.docKey(docs[i].ID()), Fields: toHash(&docs[i], vec)}
	}

	if err := s.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("store %d documents: %w", len(items), err)
	}

	s.logger.Debug("Documents added",
		zap.Int("count", len(items)),
		zap.Int("embedding_tokens", emb.TotalTokens),
	)
	return nil
}

// Search embeds the query text and returns up to TopK matches, most similar first.
// It returns nil when nothing matched.
func (s *Store) Search(ctx context.Context, req *request.Request) ([]result.ScoredMatch, error) {
	emb, err := s.queries.Embed(ctx, req.Text())
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(emb.TotalTokens)

	sr, err := s.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    s.indexName(),
		Filters:      req.Filters(),
		Vector:       emb.Embedding,
		K:            req.TopK(),
		ReturnFields: s.returnFields(),
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	prefix := s.docPrefix()
	out := make([]result.ScoredMatch, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		out = append(out, fromEntry(prefix, e))
	}
	return out, nil
}

// Delete removes documents by id. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(id)
	}
	if err := s.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("delete %d documents: %w", len(ids), err)
	}
	return nil
}

// Count returns the number of indexed documents. A missing index counts as empty.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.store.SearchCount(ctx, s.indexName())
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func (s *Store) returnFields() []string {
	fields := make([]string, 0, len(s.cfg.TagFields)+1)
	fields = append(fields, fieldContent)
	return append(fields, s.cfg.TagFields...)
}

func zapIndex(name string) zap.Field { return zap.String("index", name) }
