package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/newsarc"
	newshttp "github.com/fwojciec/newsarc/http"
	"github.com/fwojciec/newsarc/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Stdin    io.Reader
	Logger   *slog.Logger
	DB       *sqlite.DB
	Walker   newsarc.SitemapWalker
	Render   newsarc.RenderClient
	Backend  *newshttp.RenderClient
	Articles newsarc.ArticleService
	Sessions newsarc.SessionService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Discover DiscoverCmd `cmd:"" help:"Walk a sitemap index and save discovered article URLs"`
	Scrape   ScrapeCmd   `cmd:"" help:"Scrape discovered articles through the rendering backend"`
	Export   ExportCmd   `cmd:"" help:"Load scraped articles from a JSONL file into the database"`
	Status   StatusCmd   `cmd:"" help:"Show backend health, corpus stats, and recent runs"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL     string `arg:"" help:"Root sitemap index URL"`
	MinYear int    `default:"2015" help:"Drop entries older than this year (0 disables)"`
	Limit   int    `help:"Cap the number of entries saved (0 means unlimited)"`
	Output  string `short:"o" default:"data/sitemap_data.json" help:"Discovery output file"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	Input    string        `short:"i" default:"data/sitemap_data.json" help:"Discovery file with candidate URLs"`
	Output   string        `short:"o" default:"data/articles.jsonl" help:"Article results file"`
	Progress string        `default:"data/progress.jsonl" help:"Progress log backing resumable runs"`
	Backend  string        `env:"NEWSARC_BACKEND" default:"http://localhost:3000" help:"Rendering backend base URL"`
	MinYear  int           `help:"Drop candidates older than this year (0 disables)"`
	Limit    int           `help:"Cap the number of candidates considered (0 means unlimited)"`
	Workers  int           `short:"w" default:"3" help:"Concurrent worker count"`
	Pace     time.Duration `default:"500ms" help:"Minimum spacing between backend requests"`
	Retries  int           `default:"3" help:"Render attempts per URL, including the first"`
	Timeout  time.Duration `default:"45s" help:"Per-render request timeout"`
	MinText  int           `default:"100" help:"Minimum extracted text length to accept"`
	Yes      bool          `short:"y" help:"Skip the confirmation prompt"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Input string `arg:"" help:"Articles JSONL file to load"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Backend string `env:"NEWSARC_BACKEND" default:"http://localhost:3000" help:"Rendering backend base URL"`
}
