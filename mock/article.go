package mock

import (
	"context"

	"github.com/fwojciec/newsarc"
)

var _ newsarc.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of newsarc.ArticleService.
type ArticleService struct {
	SaveArticleFn      func(ctx context.Context, record *newsarc.ArticleRecord) error
	FindArticleByURLFn func(ctx context.Context, url string) (*newsarc.ArticleRecord, error)
	ArticleStatsFn     func(ctx context.Context) (*newsarc.ArticleStats, error)
}

func (s *ArticleService) SaveArticle(ctx context.Context, record *newsarc.ArticleRecord) error {
	return s.SaveArticleFn(ctx, record)
}

func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*newsarc.ArticleRecord, error) {
	return s.FindArticleByURLFn(ctx, url)
}

func (s *ArticleService) ArticleStats(ctx context.Context) (*newsarc.ArticleStats, error) {
	return s.ArticleStatsFn(ctx)
}
