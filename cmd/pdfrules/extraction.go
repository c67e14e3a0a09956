package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/pdfrules"
)

// Run executes the extraction create command. Each stored file is added
// as an item; adding an item runs extraction for the batch.
func (c *ExtractionCreateCmd) Run(deps *Dependencies) error {
	extraction := &pdfrules.Extraction{
		CustomerID:   c.CustomerID,
		CustomerName: c.Customer,
		Method:       pdfrules.Method(c.Method),
		CreatedBy:    c.CreatedBy,
		UpdatedBy:    c.CreatedBy,
	}
	if err := deps.Extractions.CreateExtraction(deps.Ctx, extraction); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrules.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Created extraction %s for %q\n", extraction.ID, extraction.CustomerName)

	var errs []error
	for _, path := range c.Files {
		stored, err := deps.Files.SaveFile(deps.Ctx, path)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: failed to store %s: %v\n", path, err)
			errs = append(errs, err)
			continue
		}

		item := &pdfrules.ExtractionItem{
			ExtractionID: extraction.ID,
			FileName:     stored.Name,
			FilePath:     stored.Path,
			ContentHash:  stored.Hash,
			CreatedBy:    c.CreatedBy,
			UpdatedBy:    c.CreatedBy,
		}
		err = deps.Extractions.CreateItem(deps.Ctx, item)
		if item.ID == "" {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrules.ErrorMessage(err))
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(deps.Stdout, "Added %s (item %s)\n", item.FileName, item.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: extraction failed: %v\n", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Run executes the extraction run command.
func (c *ExtractionRunCmd) Run(deps *Dependencies) error {
	report, err := deps.Extractor.ProcessExtraction(deps.Ctx, c.ID)
	if report == nil && err == nil {
		fmt.Fprintf(deps.Stderr, "error: extraction %q not found\n", c.ID)
		return pdfrules.Errorf(pdfrules.ENOTFOUND, "extraction %q not found", c.ID)
	}
	if report == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrules.ErrorMessage(err))
		return err
	}

	if report.Method == pdfrules.MethodAI {
		fmt.Fprintln(deps.Stdout, "Extraction method is ai; nothing to do.")
		return nil
	}

	for _, item := range report.Items {
		line := fmt.Sprintf("%s  %s  %s", item.ItemID, item.FileName, item.State)
		if item.Err != nil {
			line += "  " + pdfrules.ErrorMessage(item.Err)
		}
		fmt.Fprintln(deps.Stdout, line)
	}
	fmt.Fprintf(deps.Stdout, "%d persisted, %d failed\n", report.Persisted(), report.Failed())
	return err
}

// Run executes the extraction show command.
func (c *ExtractionShowCmd) Run(deps *Dependencies) error {
	extraction, err := deps.Extractions.FindExtractionByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrules.ErrorMessage(err))
		return err
	}

	items, err := deps.Extractions.FindItems(deps.Ctx, pdfrules.ItemFilter{ExtractionID: &extraction.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrules.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Extraction %s  customer=%q  method=%s  items=%d\n",
		extraction.ID, extraction.CustomerName, extraction.Method, len(items))

	for _, item := range items {
		fmt.Fprintf(deps.Stdout, "\n%s  %s\n", item.ID, item.FileName)
		if item.Result == nil {
			fmt.Fprintln(deps.Stdout, "(no result)")
			continue
		}
		data, err := json.Marshal(item.Result)
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, out.String())
	}
	return nil
}
