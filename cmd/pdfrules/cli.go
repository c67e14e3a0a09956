package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/pdfrules"
	"github.com/fwojciec/pdfrules/extract"
	"github.com/fwojciec/pdfrules/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdout      io.Writer
	Stderr      io.Writer
	Config      Config
	Logger      *slog.Logger
	Rules       pdfrules.RuleService
	Extractions pdfrules.ExtractionService
	Extractor   *extract.Extractor
	Text        pdfrules.TextExtractor
	Files       *fs.FileStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve      ServeCmd      `cmd:"" help:"Run the HTTP server"`
	Rule       RuleCmd       `cmd:"" help:"Manage extraction rules"`
	Extraction ExtractionCmd `cmd:"" help:"Create and run extraction batches"`
	Text       TextCmd       `cmd:"" help:"Print the text layer of a PDF"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string   `help:"Listen address (defaults to PDFRULES_ADDR)"`
	Origins []string `name:"origin" help:"Allowed CORS origin (repeatable, default any)"`
}

// RuleCmd groups the rule subcommands.
type RuleCmd struct {
	Add       RuleAddCmd       `cmd:"" help:"Add a rule"`
	List      RuleListCmd      `cmd:"" help:"List rules in evaluation order"`
	Duplicate RuleDuplicateCmd `cmd:"" help:"Copy a rule to the end of the order"`
	Delete    RuleDeleteCmd    `cmd:"" help:"Delete a rule"`
}

// RuleAddCmd is the "rule add" subcommand.
type RuleAddCmd struct {
	Customer   string `arg:"" help:"Customer name"`
	Field      string `arg:"" help:"Field name"`
	Pattern    string `arg:"" help:"Regular expression"`
	Group      int    `short:"g" default:"${default_group}" help:"Capture group (0 for the full match)"`
	Item       bool   `short:"i" help:"Item field (one value per line item)"`
	CustomerID string `name:"customer-id" help:"External customer ID"`
	PatternV2  string `name:"pattern-v2" help:"Stored alternate pattern"`
	PatternV3  string `name:"pattern-v3" help:"Stored alternate pattern"`
}

// RuleListCmd is the "rule list" subcommand.
type RuleListCmd struct {
	Customer string `short:"c" help:"Only rules of this customer"`
}

// RuleDuplicateCmd is the "rule duplicate" subcommand.
type RuleDuplicateCmd struct {
	ID string `arg:"" help:"Rule ID"`
}

// RuleDeleteCmd is the "rule delete" subcommand.
type RuleDeleteCmd struct {
	ID string `arg:"" help:"Rule ID"`
}

// ExtractionCmd groups the extraction subcommands.
type ExtractionCmd struct {
	Create ExtractionCreateCmd `cmd:"" help:"Upload PDFs into a new extraction batch"`
	Run    ExtractionRunCmd    `cmd:"" help:"Re-run extraction for a batch"`
	Show   ExtractionShowCmd   `cmd:"" help:"Show a batch and its results"`
}

// ExtractionCreateCmd is the "extraction create" subcommand.
type ExtractionCreateCmd struct {
	Customer   string   `arg:"" help:"Customer name"`
	Files      []string `arg:"" type:"existingfile" help:"PDF files"`
	Method     string   `short:"m" default:"regex" enum:"regex,ai" help:"Extraction method (regex, ai)"`
	CustomerID string   `name:"customer-id" help:"External customer ID"`
	CreatedBy  string   `name:"created-by" help:"Operator name"`
}

// ExtractionRunCmd is the "extraction run" subcommand.
type ExtractionRunCmd struct {
	ID string `arg:"" help:"Extraction ID"`
}

// ExtractionShowCmd is the "extraction show" subcommand.
type ExtractionShowCmd struct {
	ID string `arg:"" help:"Extraction ID"`
}

// TextCmd is the "text" subcommand.
type TextCmd struct {
	File string `arg:"" type:"existingfile" help:"PDF file"`
	Out  string `short:"o" help:"Write text to this file instead of stdout"`
}
