package openai

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// loggingTransport logs every outgoing provider request at debug level.
type loggingTransport struct {
	next   http.RoundTripper
	logger *zap.Logger
}

func newLoggingTransport(next http.RoundTripper, logger *zap.Logger) *loggingTransport {
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.logger.Core().Enabled(zap.DebugLevel) {
		return t.next.RoundTrip(req) //nolint:wrapcheck // transparent transport
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Int64("body_bytes", req.ContentLength),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		t.logger.Debug("Embedding provider request failed", append(fields, zap.Error(err))...)
		return nil, err //nolint:wrapcheck // transparent transport
	}
	t.logger.Debug("Embedding provider request", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}
