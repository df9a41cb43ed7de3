package main

import (
	"fmt"

	"github.com/fwojciec/newsarc"
	"github.com/fwojciec/newsarc/fs"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	entries, err := deps.Walker.Walk(deps.Ctx, c.URL, newsarc.WalkOptions{
		MinYear: c.MinYear,
		Limit:   c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsarc.ErrorMessage(err))
		return err
	}

	if err := fs.SaveEntries(c.Output, entries); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsarc.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d entries to %s\n", len(entries), c.Output)
	return nil
}
