package pdf_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/pdfrules"
	"github.com/fwojciec/pdfrules/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePDF writes a minimal single-font PDF with one page per entry in
// lines. An empty entry produces a page with an empty content stream.
func writePDF(t *testing.T, lines ...string) string {
	t.Helper()

	var kids []string
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // pages, filled in below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for _, line := range lines {
		content := ""
		if line != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", line)
		}
		contentNum := len(objects) + 1
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
		pageNum := len(objects) + 1
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentNum))
		kids = append(kids, fmt.Sprintf("%d 0 R", pageNum))
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestTextExtractor_ExtractPages(t *testing.T) {
	t.Parallel()

	t.Run("returns text per page", func(t *testing.T) {
		t.Parallel()

		path := writePDF(t, "Invoice INV-7", "", "Total 42")
		e := pdf.NewTextExtractor()

		pages, err := e.ExtractPages(context.Background(), path)

		require.NoError(t, err)
		require.Len(t, pages, 3)
		assert.Equal(t, 1, pages[0].Number)
		assert.Contains(t, pages[0].Text, "INV-7")
		assert.Empty(t, strings.TrimSpace(pages[1].Text))
		assert.Contains(t, pages[2].Text, "42")
	})

	t.Run("returns EFILENOTFOUND for missing file", func(t *testing.T) {
		t.Parallel()

		e := pdf.NewTextExtractor()

		_, err := e.ExtractPages(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

		require.Error(t, err)
		assert.Equal(t, pdfrules.EFILENOTFOUND, pdfrules.ErrorCode(err))
	})

	t.Run("returns ETEXTEXTRACTION for a file that is not a PDF", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "fake.pdf")
		require.NoError(t, os.WriteFile(path, []byte("just some text"), 0o644))
		e := pdf.NewTextExtractor()

		_, err := e.ExtractPages(context.Background(), path)

		require.Error(t, err)
		assert.Equal(t, pdfrules.ETEXTEXTRACTION, pdfrules.ErrorCode(err))
	})

	t.Run("returns ETEXTEXTRACTION when context is already done", func(t *testing.T) {
		t.Parallel()

		path := writePDF(t, "Invoice")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := pdf.NewTextExtractor()

		_, err := e.ExtractPages(ctx, path)

		require.Error(t, err)
		assert.Equal(t, pdfrules.ETEXTEXTRACTION, pdfrules.ErrorCode(err))
	})
}
