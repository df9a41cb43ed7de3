// Package slog provides logging decorators for newsarc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsarc"
)

// Ensure LoggingSitemapWalker implements newsarc.SitemapWalker.
var _ newsarc.SitemapWalker = (*LoggingSitemapWalker)(nil)

// LoggingSitemapWalker wraps a SitemapWalker with operation logging.
type LoggingSitemapWalker struct {
	next   newsarc.SitemapWalker
	logger *slog.Logger
}

// NewLoggingSitemapWalker creates a new LoggingSitemapWalker.
func NewLoggingSitemapWalker(next newsarc.SitemapWalker, logger *slog.Logger) *LoggingSitemapWalker {
	return &LoggingSitemapWalker{next: next, logger: logger}
}

// Walk delegates to the wrapped walker and logs the operation.
func (w *LoggingSitemapWalker) Walk(ctx context.Context, indexURL string, opts newsarc.WalkOptions) (entries []newsarc.SitemapEntry, err error) {
	defer func(begin time.Time) {
		w.logger.Info("sitemap walk",
			"url", indexURL,
			"min_year", opts.MinYear,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.Walk(ctx, indexURL, opts)
}
