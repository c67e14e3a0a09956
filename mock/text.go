package mock

import (
	"context"

	"github.com/fwojciec/pdfrules"
)

var _ pdfrules.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of pdfrules.TextExtractor.
type TextExtractor struct {
	ExtractPagesFn func(ctx context.Context, path string) ([]pdfrules.Page, error)
}

func (e *TextExtractor) ExtractPages(ctx context.Context, path string) ([]pdfrules.Page, error) {
	return e.ExtractPagesFn(ctx, path)
}
