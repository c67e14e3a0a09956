package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pdfrules"
	"github.com/fwojciec/pdfrules/event"
	"github.com/fwojciec/pdfrules/extract"
	pdffs "github.com/fwojciec/pdfrules/fs"
	"github.com/fwojciec/pdfrules/match"
	"github.com/fwojciec/pdfrules/pdf"
	pdfslog "github.com/fwojciec/pdfrules/slog"
	"github.com/fwojciec/pdfrules/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// A missing .env file is normal; the environment is used as is.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is read from the environment by NewMain. Set before calling Run().
	Config Config

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RuleService       pdfrules.RuleService
	ExtractionService pdfrules.ExtractionService
}

// NewMain returns a new instance of Main configured from the environment.
func NewMain() *Main {
	return &Main{
		Config: LoadConfig(os.Getenv),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: m.Config.LogLevel}))

	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Config: m.Config,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pdfrules"),
		kong.Description("Rule-driven field extraction from PDF documents."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{"default_group": strconv.Itoa(pdfrules.DefaultCaptureGroup)},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pdfrules --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Text extraction does not need the database.
	text := pdfslog.NewLoggingTextExtractor(&pdf.TextExtractor{Timeout: m.Config.ExtractTimeout}, logger)
	deps.Text = text
	if cmd == "text" {
		return kongCtx.Run(deps)
	}

	if dir := filepath.Dir(m.Config.DBPath); dir != "" {
		_ = os.MkdirAll(dir, 0755)
	}
	m.DB = sqlite.NewDB(m.Config.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PDFRULES_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.Config.DBPath, err)
	}
	defer m.Close()

	bus := event.NewBus(logger)
	m.RuleService = pdfslog.NewLoggingRuleService(sqlite.NewRuleService(m.DB), logger)
	m.ExtractionService = event.NewPublishingExtractionService(sqlite.NewExtractionService(m.DB), bus)

	extractor := &extract.Extractor{
		Extractions: m.ExtractionService,
		Rules:       m.RuleService,
		Text:        text,
		Resolver:    match.NewResolver(),
		Logger:      logger,
		Concurrency: m.Config.ExtractConcurrency,
	}
	if err := bus.Subscribe(extractor.HandleItemCreated); err != nil {
		return err
	}

	deps.Rules = m.RuleService
	deps.Extractions = m.ExtractionService
	deps.Extractor = extractor
	deps.Files = pdffs.NewFileStore(m.Config.UploadDir)

	return kongCtx.Run(deps)
}
