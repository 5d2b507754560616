package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/simplerag/internal/domain"
)

// Retrieval metrics. The locale label is the canonical tag, "any" when unfiltered,
// or "unsupported" for rejected tags.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total similarity searches by locale and outcome",
		},
		[]string{"locale", "status"},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of matches returned per successful search",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 25, 50, 100},
		},
	)

	SeedDocumentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_documents_total",
			Help:      "Documents written by the startup corpus seeder",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers retrieval and seeding metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SeedDocumentsTotal)
	searchMetricsRegistered = true
}

// SearchStatus maps a search error to a low-cardinality status label.
func SearchStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidQuery), errors.Is(err, domain.ErrInvalidTopK):
		return "invalid"
	case errors.Is(err, domain.ErrUnsupportedLocale):
		return "unsupported_locale"
	case errors.Is(err, domain.ErrRetrievalFailure):
		return "retrieval_failure"
	default:
		return "error"
	}
}
