package db

import "github.com/kailas-cloud/simplerag/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      filter.Expression
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
// Score is a similarity in [0,1], higher is closer. Nil when the engine reported none.
type SearchEntry struct {
	Key    string
	Score  *float64
	Fields map[string]string
}
