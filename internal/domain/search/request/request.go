package request

import (
	"fmt"
	"unicode/utf8"

	"github.com/kailas-cloud/simplerag/internal/domain"
	"github.com/kailas-cloud/simplerag/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in characters.
	MaxQueryLength = 4096
	DefaultTopK    = 5
	MaxTopK        = 100
)

// Request is a validated similarity query.
type Request struct {
	text    string
	topK    int
	filters filter.Expression
}

// New validates and normalizes search parameters.
// A nil topK means DefaultTopK. Values above MaxTopK are clamped.
func New(text string, topK *int, filters filter.Expression) (Request, error) {
	if text == "" {
		return Request{}, fmt.Errorf("query text is required: %w", domain.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(text) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidQuery)
	}

	k := DefaultTopK
	if topK != nil {
		k = *topK
	}
	if k < 1 {
		return Request{}, fmt.Errorf("top_k must be at least 1, got %d: %w", k, domain.ErrInvalidTopK)
	}
	if k > MaxTopK {
		k = MaxTopK
	}

	return Request{text: text, topK: k, filters: filters}, nil
}

// Text returns the query text.
func (r *Request) Text() string { return r.text }

// TopK returns the maximum number of matches to retrieve.
func (r *Request) TopK() int { return r.topK }

// Filters returns the pre-filter expression. Empty means unrestricted.
func (r *Request) Filters() filter.Expression { return r.filters }
