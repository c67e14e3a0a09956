package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/pdfrules"
)

// Run executes the text command.
func (c *TextCmd) Run(deps *Dependencies) error {
	pages, err := deps.Text.ExtractPages(deps.Ctx, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrules.ErrorMessage(err))
		return err
	}

	text := pdfrules.JoinPages(pages)
	if text == "" {
		fmt.Fprintln(deps.Stderr, "error: no text could be extracted from the PDF")
		return pdfrules.Errorf(pdfrules.ETEXTEXTRACTION, "no text could be extracted from %s", c.File)
	}

	if c.Out == "" {
		fmt.Fprintln(deps.Stdout, text)
		return nil
	}

	if err := os.WriteFile(c.Out, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Out, err)
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d pages to %s\n", len(pages), c.Out)
	return nil
}
