package main

import (
	"fmt"

	"github.com/fwojciec/newsarc"
	"github.com/fwojciec/newsarc/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	records, err := fs.LoadRecords(c.Input, deps.Logger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", newsarc.ErrorMessage(err))
		return err
	}

	// The results file is append-only, so a re-scraped URL appears more
	// than once; only the latest record per URL is exported.
	current := fs.CurrentRecords(records)

	var saved, failed int
	for _, record := range current {
		if err := deps.Articles.SaveArticle(deps.Ctx, record); err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", record.URL, newsarc.ErrorMessage(err))
			continue
		}
		saved++
	}

	fmt.Fprintf(deps.Stdout, "Exported %d articles (%d skipped) from %s\n", saved, failed, c.Input)
	return nil
}
