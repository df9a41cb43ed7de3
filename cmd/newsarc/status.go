package main

import (
	"fmt"

	"github.com/fwojciec/newsarc"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	if err := deps.Backend.Health(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stdout, "Backend %s: unavailable (%s)\n", c.Backend, newsarc.ErrorMessage(err))
	} else {
		fmt.Fprintf(deps.Stdout, "Backend %s: ready\n", c.Backend)
		if count, err := deps.Backend.Count(deps.Ctx); err == nil {
			fmt.Fprintf(deps.Stdout, "  backend store: %d articles, %d entries\n",
				count.TotalArticles, count.TotalEntries)
		}
	}

	stats, err := deps.Articles.ArticleStats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsarc.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Database: %d articles (%d succeeded, %d failed)\n",
		stats.Total, stats.Succeeded, stats.Failed)

	sessions, err := deps.Sessions.FindSessions(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsarc.ErrorMessage(err))
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(deps.Stdout, "No recorded runs.")
		return nil
	}

	const maxShown = 5
	fmt.Fprintln(deps.Stdout, "Recent runs:")
	for i, s := range sessions {
		if i == maxShown {
			break
		}
		fmt.Fprintf(deps.Stdout, "  %s  %s  attempted=%d succeeded=%d failed=%d skipped=%d\n",
			s.StartedAt.Format("2006-01-02 15:04"), shortID(s.ID),
			s.Attempted, s.Succeeded, s.Failed, s.Skipped)
	}

	return nil
}

// shortID abbreviates a session ID for display. IDs are caller-provided and
// may be shorter than the display width.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
