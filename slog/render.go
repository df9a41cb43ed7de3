package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsarc"
)

// Ensure LoggingRenderClient implements newsarc.RenderClient.
var _ newsarc.RenderClient = (*LoggingRenderClient)(nil)

// LoggingRenderClient wraps a RenderClient with debug logging.
type LoggingRenderClient struct {
	next   newsarc.RenderClient
	logger *slog.Logger
}

// NewLoggingRenderClient creates a new LoggingRenderClient.
func NewLoggingRenderClient(next newsarc.RenderClient, logger *slog.Logger) *LoggingRenderClient {
	return &LoggingRenderClient{next: next, logger: logger}
}

// Health delegates to the wrapped client and logs the operation.
func (c *LoggingRenderClient) Health(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("render backend health check",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Health(ctx)
}

// Render delegates to the wrapped client and logs the operation.
func (c *LoggingRenderClient) Render(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("render",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Render(ctx, url)
}
