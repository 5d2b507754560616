package simplerag

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey", "redis" or "memory"
	addrs    []string
	username string
	password string

	embedder            Embedder
	documentInstruction string
	queryInstruction    string
	queryCache          bool
	queryCacheModel     string
	queryCacheTTL       time.Duration

	dimensions      int
	keyPrefix       string
	hnswM           int
	hnswEFConstruct int

	logger     *zap.Logger
	registerer prometheus.Registerer
}

// WithValkey connects to a Valkey server with the valkey-search module.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis connects to a Redis server with the search module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithUsername sets the ACL user for WithValkey and WithRedis.
func WithUsername(username string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
	})
}

// WithMemory keeps documents in process. Nothing survives Close.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.addrs = nil
	})
}

// WithEmbedder sets the text embedding provider. Required.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithInstructions prefixes document and query texts before embedding.
// Some models expect different prefixes for the two sides.
func WithInstructions(document, query string) Option {
	return optionFunc(func(c *clientConfig) {
		c.documentInstruction = document
		c.queryInstruction = query
	})
}

// WithQueryCache caches query embeddings in the backing store.
// model scopes the cache keys; pass the embedding model name. ttl 0 keeps entries forever.
func WithQueryCache(model string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryCache = true
		c.queryCacheModel = model
		c.queryCacheTTL = ttl
	})
}

// WithDimensions sets the vector size the index is created with.
// Defaults to 1536 (text-embedding-3-small).
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithKeyPrefix namespaces every key the client writes. Default: "simplerag:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithHNSW configures HNSW index parameters (M and EF construction).
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithMetrics registers client operation metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.registerer = reg
	})
}

// SearchOption configures a single Search call.
type SearchOption func(*searchConfig)

type searchConfig struct {
	topK   *int
	locale string
}

// TopK sets how many matches to return. Defaults to 5.
func TopK(k int) SearchOption {
	return func(c *searchConfig) { c.topK = &k }
}

// InLocale restricts matches to one locale tag, e.g. "pt-BR".
func InLocale(tag string) SearchOption {
	return func(c *searchConfig) { c.locale = tag }
}
