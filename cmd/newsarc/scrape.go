package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/newsarc"
	"github.com/fwojciec/newsarc/fs"
	"github.com/fwojciec/newsarc/harvest"
	"github.com/fwojciec/newsarc/trafilatura"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	entries, err := fs.LoadEntries(c.Input)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsarc.ErrorMessage(err))
		if newsarc.ErrorCode(err) == newsarc.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: Run 'newsarc discover' first to build the discovery file")
		}
		return err
	}

	candidates := filterCandidates(entries, c.MinYear, c.Limit)
	if len(candidates) == 0 {
		fmt.Fprintln(deps.Stdout, "No candidates to scrape.")
		return nil
	}

	if !c.Yes {
		ok, err := confirm(deps.Stdin, deps.Stdout,
			fmt.Sprintf("Scrape %d articles via %s? [y/N] ", len(candidates), c.Backend))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(deps.Stdout, "Aborted.")
			return nil
		}
	}

	writer, err := fs.NewWriter(c.Output)
	if err != nil {
		return fmt.Errorf("failed to open results file %q: %w", c.Output, err)
	}
	defer writer.Close()

	// Couple the two logs: flush article records before progress marks hit
	// disk, so a resume never skips a URL whose record was lost in a crash.
	progress, err := fs.OpenProgressStore(c.Progress,
		fs.WithProgressLogger(deps.Logger),
		fs.WithPreFlush(writer.Flush),
	)
	if err != nil {
		return fmt.Errorf("failed to open progress log %q: %w", c.Progress, err)
	}
	defer progress.Close()

	scheduler := &harvest.Scheduler{
		Render:      deps.Render,
		Extractor:   trafilatura.NewExtractor(trafilatura.WithMinTextLength(c.MinText)),
		Writer:      writer,
		Progress:    progress,
		Pacer:       harvest.NewIntervalPacer(c.Pace),
		Workers:     c.Workers,
		MaxAttempts: c.Retries,
		Logger:      deps.Logger,
	}

	summary, err := scheduler.Run(deps.Ctx, candidates)
	if summary != nil {
		// Record the session even when the run was interrupted or aborted;
		// deps.Ctx may already be canceled by then.
		if sessErr := deps.Sessions.CreateSession(context.WithoutCancel(deps.Ctx), summary.Session()); sessErr != nil {
			fmt.Fprintf(deps.Stderr, "warning: failed to record session: %s\n", newsarc.ErrorMessage(sessErr))
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsarc.ErrorMessage(err))
		return err
	}

	if summary.Interrupted {
		fmt.Fprintln(deps.Stdout, "Interrupted; progress saved, rerun to resume.")
	}
	fmt.Fprintf(deps.Stdout, "Scraped %d articles: %d succeeded, %d failed (%s), %d skipped\n",
		summary.Attempted, summary.Succeeded, summary.Failed,
		harvest.FormatFailureKinds(summary.FailureKinds), summary.Skipped)

	return nil
}

// filterCandidates applies the year filter and limit to the discovery list.
func filterCandidates(entries []newsarc.SitemapEntry, minYear, limit int) []newsarc.SitemapEntry {
	out := make([]newsarc.SitemapEntry, 0, len(entries))
	for _, e := range entries {
		if minYear > 0 {
			if year := e.Year(); year > 0 && year < minYear {
				continue
			}
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// confirm prompts on out and reads a yes/no answer from in.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
