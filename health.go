package simplerag

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/simplerag/internal/domain"
	healthuc "github.com/kailas-cloud/simplerag/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

// Health checks the backing store and, if the embedder supports it, the embedding provider.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type embedderHealth struct {
	hc domain.HealthChecker
}

func (h embedderHealth) HealthCheck(ctx context.Context) error {
	if err := h.hc.HealthCheck(ctx); err != nil {
		return fmt.Errorf("embedding health check: %w", err)
	}
	return nil
}

func newHealthService(c *Client, e Embedder) *healthuc.Service {
	// Pass a nil interface, not a typed nil, when the embedder cannot report health.
	var emb healthuc.EmbeddingChecker
	if hc, ok := e.(domain.HealthChecker); ok {
		emb = embedderHealth{hc: hc}
	}
	return healthuc.New(c.store, emb, nil)
}
