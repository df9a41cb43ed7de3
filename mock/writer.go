package mock

import (
	"context"

	"github.com/fwojciec/newsarc"
)

var _ newsarc.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of newsarc.ResultWriter.
type ResultWriter struct {
	WriteFn func(ctx context.Context, record *newsarc.ArticleRecord) error
	FlushFn func() error
	CloseFn func() error
}

func (w *ResultWriter) Write(ctx context.Context, record *newsarc.ArticleRecord) error {
	return w.WriteFn(ctx, record)
}

func (w *ResultWriter) Flush() error {
	if w.FlushFn == nil {
		return nil
	}
	return w.FlushFn()
}

func (w *ResultWriter) Close() error {
	if w.CloseFn == nil {
		return nil
	}
	return w.CloseFn()
}
