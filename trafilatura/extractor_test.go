package trafilatura_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/newsarc"
	"github.com/fwojciec/newsarc/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements newsarc.Extractor at compile time.
var _ newsarc.Extractor = (*trafilatura.Extractor)(nil)

// articleHTML builds a plausible rendered news article with n body
// paragraphs.
func articleHTML(n int) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
<title>Markets rally on rate cut hopes | Example News</title>
<meta property="og:title" content="Markets rally on rate cut hopes">
<meta property="og:image" content="https://example.com/images/markets.jpg">
<meta name="author" content="Jane Dolan">
<meta property="article:published_time" content="2025-03-14T09:30:00Z">
</head>
<body>
<nav><a href="/">Home</a><a href="/markets">Markets</a></nav>
<article>
<h1>Markets rally on rate cut hopes</h1>
`)
	for i := range n {
		fmt.Fprintf(&b, "<p>Paragraph %d: equity benchmarks extended gains as investors weighed the prospect of looser monetary policy against persistent inflation data released earlier in the week.</p>\n", i)
	}
	b.WriteString(`</article>
<footer>Copyright Example News</footer>
</body>
</html>`)
	return b.String()
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts body text and metadata", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(articleHTML(12), "https://example.com/content/markets-rally")

		require.NoError(t, err)
		assert.Contains(t, result.Text, "equity benchmarks extended gains")
		assert.NotContains(t, result.Text, "Copyright Example News")
		assert.NotEmpty(t, result.Title)
		assert.Greater(t, len(result.Text), trafilatura.DefaultMinTextLength)
	})

	t.Run("short body fails the quality gate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Subscribe to continue</title></head>
<body><article><p>Subscribe to read this article.</p></article></body>
</html>`

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract(html, "https://example.com/content/paywalled")

		require.Error(t, err)
		assert.Equal(t, newsarc.ELOWQUALITY, newsarc.ErrorCode(err))
		assert.False(t, newsarc.Retryable(err))
	})

	t.Run("custom threshold", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor(trafilatura.WithMinTextLength(100000))
		_, err := ext.Extract(articleHTML(12), "https://example.com/content/markets-rally")

		assert.Equal(t, newsarc.ELOWQUALITY, newsarc.ErrorCode(err))
	})

	t.Run("empty input is invalid", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("", "https://example.com/content/x")

		assert.Equal(t, newsarc.EINVALID, newsarc.ErrorCode(err))
	})

	t.Run("og:image fallback fills top image", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(articleHTML(12), "https://example.com/content/markets-rally")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/images/markets.jpg", result.TopImage)
	})
}
