// Package http provides HTTP-based implementations of the newsarc service
// interfaces: the rendering-backend client and the sitemap walker.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/newsarc"
)

// DefaultRenderTimeout bounds a single render request. Rendering goes
// through a real browser on the backend, so this is generous.
const DefaultRenderTimeout = 45 * time.Second

// Ensure RenderClient implements newsarc.RenderClient at compile time.
var _ newsarc.RenderClient = (*RenderClient)(nil)

// RenderClient talks to the external rendering backend over HTTP. The
// backend owns browser automation; this client only issues requests and
// classifies failures. No state is retained between calls.
type RenderClient struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// RenderOption configures a RenderClient.
type RenderOption func(*RenderClient)

// WithRenderTimeout sets the per-request timeout.
// Defaults to DefaultRenderTimeout if not specified.
func WithRenderTimeout(d time.Duration) RenderOption {
	return func(c *RenderClient) {
		c.timeout = d
	}
}

// WithRenderHTTPClient sets the underlying HTTP client.
// If not specified, http.DefaultClient is used.
func WithRenderHTTPClient(client *http.Client) RenderOption {
	return func(c *RenderClient) {
		c.client = client
	}
}

// NewRenderClient creates a RenderClient for the backend at baseURL,
// e.g. "http://localhost:3000".
func NewRenderClient(baseURL string, opts ...RenderOption) *RenderClient {
	c := &RenderClient{
		client:  http.DefaultClient,
		baseURL: baseURL,
		timeout: DefaultRenderTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// healthResponse is the backend's GET /health payload.
type healthResponse struct {
	Status       string `json:"status"`
	BrowserReady bool   `json:"browserReady"`
	Timestamp    string `json:"timestamp"`
}

// Health verifies the backend is reachable and its browser is ready.
func (c *RenderClient) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return newsarc.Errorf(newsarc.EINVALID, "invalid backend URL %q: %v", c.baseURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return newsarc.Errorf(newsarc.EUNAVAILABLE, "rendering backend unreachable at %s: %v", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return newsarc.Errorf(newsarc.EUNAVAILABLE, "rendering backend health check returned HTTP %d", resp.StatusCode)
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return newsarc.Errorf(newsarc.EUNAVAILABLE, "rendering backend health check unparseable: %v", err)
	}
	if !health.BrowserReady {
		return newsarc.Errorf(newsarc.EUNAVAILABLE, "rendering backend browser not ready")
	}
	return nil
}

// scrapeResponse is the backend's POST /scrape payload.
type scrapeResponse struct {
	Success   bool   `json:"success"`
	URL       string `json:"url"`
	HTML      string `json:"html"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Render navigates the backend to url and returns the rendered HTML.
// Errors carry the application code that governs retry behavior.
func (c *RenderClient) Render(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return "", newsarc.Errorf(newsarc.EINVALID, "encoding scrape request for %s: %v", url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", bytes.NewReader(body))
	if err != nil {
		return "", newsarc.Errorf(newsarc.EINVALID, "creating scrape request for %s: %v", url, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// A canceled parent context is shutdown, not a backend failure.
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", newsarc.Errorf(newsarc.ETRANSPORT, "scrape request for %s: %v", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Handled below.
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", newsarc.Errorf(newsarc.ERATELIMITED, "backend rate limited scrape of %s", url)
	case resp.StatusCode >= 500:
		return "", newsarc.Errorf(newsarc.EINTERNAL, "backend HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode >= 400:
		return "", newsarc.Errorf(newsarc.EREJECTED, "backend rejected %s: %s", url, errorDetail(resp.Body, resp.StatusCode))
	default:
		return "", newsarc.Errorf(newsarc.EINTERNAL, "backend HTTP %d for %s", resp.StatusCode, url)
	}

	var scrape scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&scrape); err != nil {
		return "", newsarc.Errorf(newsarc.EINTERNAL, "unparseable scrape response for %s: %v", url, err)
	}
	if !scrape.Success {
		return "", newsarc.Errorf(newsarc.EREJECTED, "backend reported failure for %s: %s", url, scrape.Error)
	}
	if scrape.HTML == "" {
		return "", newsarc.Errorf(newsarc.EREJECTED, "backend returned empty HTML for %s", url)
	}
	return scrape.HTML, nil
}

// errorDetail extracts the backend's error message from an error response
// body, falling back to the status code.
func errorDetail(r io.Reader, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("HTTP %d", status)
}

// ArticleCount is the backend's diagnostic store count.
type ArticleCount struct {
	TotalArticles int    `json:"totalArticles"`
	TotalEntries  int    `json:"totalEntries"`
	Timestamp     string `json:"timestamp"`
}

// Count returns the backend's diagnostic article counters. Not part of the
// harvesting data path.
func (c *RenderClient) Count(ctx context.Context) (*ArticleCount, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/articles/count", nil)
	if err != nil {
		return nil, newsarc.Errorf(newsarc.EINVALID, "invalid backend URL %q: %v", c.baseURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newsarc.Errorf(newsarc.EUNAVAILABLE, "rendering backend unreachable at %s: %v", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newsarc.Errorf(newsarc.EINTERNAL, "articles count returned HTTP %d", resp.StatusCode)
	}

	var count ArticleCount
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return nil, newsarc.Errorf(newsarc.EINTERNAL, "unparseable articles count: %v", err)
	}
	return &count, nil
}
