package simplerag

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simplerag/internal/db"
	"github.com/kailas-cloud/simplerag/internal/db/memory"
	dbRedis "github.com/kailas-cloud/simplerag/internal/db/redis"
	"github.com/kailas-cloud/simplerag/internal/domain"
	"github.com/kailas-cloud/simplerag/internal/domain/document"
	"github.com/kailas-cloud/simplerag/internal/domain/locale"
	"github.com/kailas-cloud/simplerag/internal/domain/search/result"
	"github.com/kailas-cloud/simplerag/internal/metrics"
	"github.com/kailas-cloud/simplerag/internal/repository/embcache"
	"github.com/kailas-cloud/simplerag/internal/repository/vectorstore"
	searchuc "github.com/kailas-cloud/simplerag/internal/usecase/search"
	seeduc "github.com/kailas-cloud/simplerag/internal/usecase/seed"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "simplerag:"
)

// Document is a text to index, tagged with an optional locale.
type Document struct {
	ID       string // generated when empty
	Text     string
	Locale   string
	Metadata map[string]string
}

// Match is a search hit. Score is nil when the engine did not report one.
type Match struct {
	ID     string
	Text   string
	Score  *float64
	Locale string
}

// Client is the simplerag entry point.
type Client struct {
	store   db.Store
	vectors *vectorstore.Store
	search  *searchuc.Service
	seeder  *seeduc.Service
	health  healthUseCase
	obs     *observer
	logger  *zap.Logger
}

// New creates a Client, connects to the backing store and ensures the index exists.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		dimensions: domain.DefaultVectorConfig().Dimensions,
		keyPrefix:  defaultKeyPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if cfg.driver == "" {
		return nil, errors.New("simplerag: backend required (use WithValkey, WithRedis or WithMemory)")
	}
	if cfg.embedder == nil {
		return nil, fmt.Errorf("simplerag: %w (use WithEmbedder)", domain.ErrEmbedderNotConfigured)
	}
	if cfg.dimensions <= 0 {
		return nil, fmt.Errorf("simplerag: dimensions must be positive, got %d", cfg.dimensions)
	}

	obs, err := newObserver(cfg.logger, cfg.registerer)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("simplerag: database not ready: %w", err)
	}

	c := wireClient(store, cfg)
	c.obs = obs
	if err := c.vectors.EnsureIndex(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("simplerag: %w", err)
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("simplerag: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("simplerag: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	var docs, queries domain.Embedder = cfg.embedder, cfg.embedder

	if cfg.queryCache {
		queries = embcache.New(queries, store, embcache.Config{
			KeyPrefix: cfg.keyPrefix,
			Model:     cfg.queryCacheModel,
			TTL:       cfg.queryCacheTTL,
		}, metrics.EmbeddingCacheTotal, cfg.logger)
	}
	if cfg.documentInstruction != "" {
		docs = domain.NewInstructionEmbedder(docs, cfg.documentInstruction)
	}
	if cfg.queryInstruction != "" {
		queries = domain.NewInstructionEmbedder(queries, cfg.queryInstruction)
	}

	vectors := vectorstore.New(store, docs, queries, vectorstore.Config{
		KeyPrefix:  cfg.keyPrefix,
		Dimensions: cfg.dimensions,
		HNSW:       vectorstore.HNSWConfig{M: cfg.hnswM, EFConstruct: cfg.hnswEFConstruct},
	}, cfg.logger)

	c := &Client{
		store:   store,
		vectors: vectors,
		search:  searchuc.New(vectors),
		seeder:  seeduc.New(vectors, true, cfg.logger),
		logger:  cfg.logger,
	}
	c.health = newHealthService(c, cfg.embedder)
	return c
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Seed loads the built-in demonstration corpus. Every call adds a fresh copy.
func (c *Client) Seed(ctx context.Context) (err error) {
	defer func(start time.Time) { c.obs.observe("seed", start, err) }(time.Now())
	return c.seeder.Seed(ctx) //nolint:wrapcheck // already carries ErrSeedFailure
}

// Add embeds and stores docs in one batch. It returns the stored ids in input order.
func (c *Client) Add(ctx context.Context, docs ...Document) (_ []string, err error) {
	defer func(start time.Time) { c.obs.observe("add", start, err) }(time.Now())

	built := make([]document.Document, len(docs))
	for i, d := range docs {
		meta := maps.Clone(d.Metadata)
		if d.Locale != "" {
			l, err := locale.Parse(d.Locale)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w", i, err)
			}
			if meta == nil {
				meta = make(map[string]string, 1)
			}
			meta[locale.Key] = l.String()
		}
		doc, err := document.New(d.ID, d.Text, meta)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		built[i] = doc
	}

	if err := c.vectors.Add(ctx, built); err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}

	ids := make([]string, len(built))
	for i := range built {
		ids[i] = built[i].ID()
	}
	return ids, nil
}

// Search returns the documents most similar to query, best first.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (_ []Match, err error) {
	defer func(start time.Time) { c.obs.observe("search", start, err) }(time.Now())

	var sc searchConfig
	for _, o := range opts {
		o(&sc)
	}

	var loc locale.Locale
	if sc.locale != "" {
		l, err := c.search.ParseLocale(ctx, sc.locale)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		loc = l
	}

	matches, err := c.search.Search(ctx, query, sc.topK, loc)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromMatches(matches), nil
}

// Delete removes documents by id. Unknown ids are ignored.
func (c *Client) Delete(ctx context.Context, ids ...string) (err error) {
	defer func(start time.Time) { c.obs.observe("delete", start, err) }(time.Now())
	return c.vectors.Delete(ctx, ids...) //nolint:wrapcheck // already wrapped
}

// Count returns the number of indexed documents.
func (c *Client) Count(ctx context.Context) (int, error) {
	return c.vectors.Count(ctx) //nolint:wrapcheck // already wrapped
}

func fromMatches(in []result.ScoredMatch) []Match {
	out := make([]Match, len(in))
	for i := range in {
		out[i] = Match{
			ID:     in[i].ID(),
			Text:   in[i].Text(),
			Score:  in[i].Score(),
			Locale: in[i].Metadata()[locale.Key],
		}
	}
	return out
}
