package mock

import (
	"context"

	"github.com/fwojciec/newsarc"
)

var _ newsarc.RenderClient = (*RenderClient)(nil)

// RenderClient is a mock implementation of newsarc.RenderClient.
type RenderClient struct {
	HealthFn func(ctx context.Context) error
	RenderFn func(ctx context.Context, url string) (string, error)
}

func (c *RenderClient) Health(ctx context.Context) error {
	return c.HealthFn(ctx)
}

func (c *RenderClient) Render(ctx context.Context, url string) (string, error) {
	return c.RenderFn(ctx, url)
}
