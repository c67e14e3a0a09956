// Package slog provides logging decorators built on log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pdfrules"
)

// Ensure LoggingTextExtractor implements pdfrules.TextExtractor.
var _ pdfrules.TextExtractor = (*LoggingTextExtractor)(nil)

// LoggingTextExtractor wraps a TextExtractor with logging.
type LoggingTextExtractor struct {
	next   pdfrules.TextExtractor
	logger *slog.Logger
}

// NewLoggingTextExtractor creates a new LoggingTextExtractor.
func NewLoggingTextExtractor(next pdfrules.TextExtractor, logger *slog.Logger) *LoggingTextExtractor {
	return &LoggingTextExtractor{next: next, logger: logger}
}

// ExtractPages delegates to the wrapped extractor and logs page counts.
// Pages without text are reported individually at warning level.
func (e *LoggingTextExtractor) ExtractPages(ctx context.Context, path string) (pages []pdfrules.Page, err error) {
	defer func(begin time.Time) {
		if err != nil {
			e.logger.Error("text extraction",
				"path", path,
				"code", pdfrules.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		for _, n := range pdfrules.EmptyPages(pages) {
			e.logger.Warn("page has no extractable text", "path", path, "page", n)
		}
		e.logger.Info("text extraction",
			"path", path,
			"pages", len(pages),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.ExtractPages(ctx, path)
}
