package pdfrules

import (
	"context"
	"strings"
)

// Page holds the text of one PDF page. Text is empty for pages without
// extractable text.
type Page struct {
	Number int    `json:"pageNumber"`
	Text   string `json:"text"`
}

// TextExtractor reads the text layer of a PDF file.
type TextExtractor interface {
	// ExtractPages returns the text of every page in page order.
	// Returns EFILENOTFOUND if the file does not exist and ETEXTEXTRACTION
	// if the file cannot be read or parsed.
	ExtractPages(ctx context.Context, path string) ([]Page, error)
}

// ConcatPages concatenates page texts as they were extracted. Each page
// with text contributes its text and a newline; pages without text are
// skipped.
func ConcatPages(pages []Page) string {
	var sb strings.Builder
	for _, p := range pages {
		if p.Text == "" {
			continue
		}
		sb.WriteString(p.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// JoinPages returns the document text matched by rules: ConcatPages with
// surrounding whitespace trimmed.
func JoinPages(pages []Page) string {
	return strings.TrimSpace(ConcatPages(pages))
}

// EmptyPages returns the numbers of pages that have no text.
func EmptyPages(pages []Page) []int {
	var out []int
	for _, p := range pages {
		if p.Text == "" {
			out = append(out, p.Number)
		}
	}
	return out
}
