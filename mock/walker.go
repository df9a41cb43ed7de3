package mock

import (
	"context"

	"github.com/fwojciec/newsarc"
)

var _ newsarc.SitemapWalker = (*SitemapWalker)(nil)

// SitemapWalker is a mock implementation of newsarc.SitemapWalker.
type SitemapWalker struct {
	WalkFn func(ctx context.Context, indexURL string, opts newsarc.WalkOptions) ([]newsarc.SitemapEntry, error)
}

func (w *SitemapWalker) Walk(ctx context.Context, indexURL string, opts newsarc.WalkOptions) ([]newsarc.SitemapEntry, error) {
	return w.WalkFn(ctx, indexURL, opts)
}
