// Package extract runs rule-based extraction over the documents of an
// extraction batch. It loads the customer's rules once per run, extracts
// document text in parallel, and persists results sequentially in upload
// order.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fwojciec/pdfrules"
	"github.com/fwojciec/pdfrules/match"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of documents whose text is extracted
// at the same time when Extractor.Concurrency is not set.
const DefaultConcurrency = 4

// State is the processing state of a single extraction item.
type State string

// Item states. An item moves forward through PENDING, TEXT_EXTRACTED,
// FIELDS_RESOLVED and PERSISTED, or stops at FAILED.
const (
	StatePending        State = "PENDING"
	StateTextExtracted  State = "TEXT_EXTRACTED"
	StateFieldsResolved State = "FIELDS_RESOLVED"
	StatePersisted      State = "PERSISTED"
	StateFailed         State = "FAILED"
)

// ItemReport describes what happened to one item during a run.
type ItemReport struct {
	ItemID      string
	FileName    string
	State       State
	Diagnostics []pdfrules.Diagnostic
	Err         error
}

// Report holds the outcome of processing an extraction batch.
type Report struct {
	ExtractionID string
	Method       pdfrules.Method
	Items        []ItemReport
}

// Persisted returns the number of items whose result was stored.
func (r *Report) Persisted() int {
	return r.count(StatePersisted)
}

// Failed returns the number of items that failed.
func (r *Report) Failed() int {
	return r.count(StateFailed)
}

func (r *Report) count(s State) int {
	var n int
	for _, item := range r.Items {
		if item.State == s {
			n++
		}
	}
	return n
}

// Extractor orchestrates extraction of a batch.
type Extractor struct {
	Extractions pdfrules.ExtractionService
	Rules       pdfrules.RuleService
	Text        pdfrules.TextExtractor
	Resolver    *match.Resolver
	Logger      *slog.Logger
	Concurrency int
}

// textResult holds the text of a single item.
type textResult struct {
	text string
	err  error
}

// HandleItemCreated processes the whole batch the new item belongs to.
// It satisfies pdfrules.ItemCreatedHandler.
func (e *Extractor) HandleItemCreated(ctx context.Context, event pdfrules.ItemCreated) error {
	_, err := e.ProcessExtraction(ctx, event.ExtractionID)
	return err
}

// ProcessExtraction applies the customer's rules to every item of the
// extraction and stores each item's result. An unknown extraction is
// logged and ignored. The returned error joins the errors of failed
// items; items that succeeded are persisted regardless.
func (e *Extractor) ProcessExtraction(ctx context.Context, extractionID string) (*Report, error) {
	logger := e.logger().With("extraction", extractionID)

	extraction, err := e.Extractions.FindExtractionByID(ctx, extractionID)
	if pdfrules.ErrorCode(err) == pdfrules.ENOTFOUND {
		logger.Error("extraction not found, skipping")
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("find extraction: %w", err)
	}

	report := &Report{ExtractionID: extraction.ID, Method: extraction.Method}

	if extraction.Method == pdfrules.MethodAI {
		logger.Info("ai extraction is not supported, skipping", "customer", extraction.CustomerName)
		return report, nil
	}

	// One snapshot of the rules serves every item in the run.
	customer := extraction.CustomerName
	rules, err := e.Rules.FindRules(ctx, pdfrules.RuleFilter{CustomerName: &customer})
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	headerRules, itemRules := pdfrules.SplitRules(rules)

	items, err := e.Extractions.FindItems(ctx, pdfrules.ItemFilter{ExtractionID: &extraction.ID})
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}

	logger.Info("processing extraction",
		"customer", customer,
		"items", len(items),
		"header_rules", len(headerRules),
		"item_rules", len(itemRules),
	)

	texts := e.extractTexts(ctx, items)

	resolver := e.Resolver
	if resolver == nil {
		resolver = match.NewResolver()
	}

	var errs []error
	for i, item := range items {
		ir := ItemReport{ItemID: item.ID, FileName: item.FileName, State: StatePending}
		itemLogger := logger.With("item", item.ID, "file", item.FileName)

		if err := texts[i].err; err != nil {
			ir.State = StateFailed
			ir.Err = fmt.Errorf("item %s: %w", item.ID, err)
			itemLogger.Error("text extraction failed", "code", pdfrules.ErrorCode(err), "err", err)
			errs = append(errs, ir.Err)
			report.Items = append(report.Items, ir)
			continue
		}
		ir.State = StateTextExtracted
		if texts[i].text == "" {
			itemLogger.Warn("no text could be extracted")
		}

		result, diags := resolver.Resolve(headerRules, itemRules, texts[i].text)
		ir.Diagnostics = diags
		ir.State = StateFieldsResolved
		for _, d := range diags {
			itemLogger.Log(ctx, d.Level(), "rule diagnostic",
				"field", d.Field,
				"kind", d.Kind,
				"code", d.Code,
				"msg", d.Message,
			)
		}

		if err := e.Extractions.SetItemResult(ctx, item.ID, result); err != nil {
			ir.State = StateFailed
			ir.Err = fmt.Errorf("item %s: store result: %w", item.ID, err)
			itemLogger.Error("failed to store result", "err", err)
			errs = append(errs, ir.Err)
			report.Items = append(report.Items, ir)
			continue
		}
		ir.State = StatePersisted
		itemLogger.Info("result stored",
			"header_fields", result.Header.Len(),
			"item_records", len(result.Items),
		)
		report.Items = append(report.Items, ir)
	}

	logger.Info("extraction finished", "persisted", report.Persisted(), "failed", report.Failed())
	return report, errors.Join(errs...)
}

// extractTexts extracts the text of every item, preserving item order.
// A failure is recorded against its item only.
func (e *Extractor) extractTexts(ctx context.Context, items []*pdfrules.ExtractionItem) []textResult {
	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]textResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, item := range items {
		g.Go(func() error {
			pages, err := e.Text.ExtractPages(gctx, item.FilePath)
			if err != nil {
				results[i] = textResult{err: err}
				return nil
			}
			results[i] = textResult{text: pdfrules.JoinPages(pages)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}
