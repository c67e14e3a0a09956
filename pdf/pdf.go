// Package pdf extracts the text layer of PDF files using
// github.com/ledongthuc/pdf.
package pdf

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/fwojciec/pdfrules"
	ledongpdf "github.com/ledongthuc/pdf"
)

// DefaultTimeout bounds a single document's text extraction.
const DefaultTimeout = 60 * time.Second

// Ensure TextExtractor implements pdfrules.TextExtractor.
var _ pdfrules.TextExtractor = (*TextExtractor)(nil)

// TextExtractor reads page text from PDF files on disk.
type TextExtractor struct {
	// Timeout bounds each call to ExtractPages. Zero disables the bound.
	Timeout time.Duration
}

// NewTextExtractor creates a TextExtractor with DefaultTimeout.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{Timeout: DefaultTimeout}
}

// ExtractPages returns the text of every page of the PDF at path.
// Pages without a text layer are returned with empty text.
func (e *TextExtractor) ExtractPages(ctx context.Context, path string) ([]pdfrules.Page, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pdfrules.Errorf(pdfrules.EFILENOTFOUND, "file not found: %s", path)
		}
		return nil, pdfrules.Errorf(pdfrules.ETEXTEXTRACTION, "cannot access %s: %v", path, err)
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, pdfrules.Errorf(pdfrules.ETEXTEXTRACTION, "extraction of %s canceled: %v", path, err)
	}

	type result struct {
		pages []pdfrules.Page
		err   error
	}
	// The parser does not observe ctx; on timeout the goroutine finishes
	// in the background and its result is dropped.
	ch := make(chan result, 1)
	go func() {
		pages, err := readPages(path)
		ch <- result{pages: pages, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, pdfrules.Errorf(pdfrules.ETEXTEXTRACTION, "extraction of %s aborted: %v", path, ctx.Err())
	case r := <-ch:
		return r.pages, r.err
	}
}

func readPages(path string) (pages []pdfrules.Page, err error) {
	// Malformed documents can panic deep inside the parser.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = pdfrules.Errorf(pdfrules.ETEXTEXTRACTION, "failed to parse %s: %v", path, r)
		}
	}()

	f, r, err := ledongpdf.Open(path)
	if err != nil {
		return nil, pdfrules.Errorf(pdfrules.ETEXTEXTRACTION, "failed to open %s: %v", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	pages = make([]pdfrules.Page, 0, n)
	for i := 1; i <= n; i++ {
		page := pdfrules.Page{Number: i}
		p := r.Page(i)
		if !p.V.IsNull() {
			text, err := p.GetPlainText(nil)
			if err != nil {
				return nil, pdfrules.Errorf(pdfrules.ETEXTEXTRACTION, "failed to read page %d of %s: %v", i, path, err)
			}
			page.Text = text
		}
		pages = append(pages, page)
	}
	return pages, nil
}
