package domain

import "context"

type embeddingUsageKey struct{}

// EmbeddingUsage collects the tokens a single search request spent on its query embedding.
// The HTTP handler installs it, the vector store records into it, the handler reports it.
type EmbeddingUsage struct {
	TotalTokens int
	Used        bool // set even on a cache hit that cost 0 tokens
}

// NewContextWithUsage returns ctx carrying a fresh usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext returns the collector installed in ctx, or nil.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// AddTokens is safe on a nil receiver.
func (u *EmbeddingUsage) AddTokens(n int) {
	if u == nil {
		return
	}
	u.TotalTokens += n
	u.Used = true
}
