package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/fwojciec/pdfrules"
	pdfhttp "github.com/fwojciec/pdfrules/http"
	"github.com/fwojciec/pdfrules/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract-text/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func staticPages(pages ...pdfrules.Page) *mock.TextExtractor {
	return &mock.TextExtractor{
		ExtractPagesFn: func(ctx context.Context, path string) ([]pdfrules.Page, error) {
			return pages, nil
		},
	}
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestServer_ExtractText(t *testing.T) {
	t.Parallel()

	t.Run("returns text as attachment", func(t *testing.T) {
		t.Parallel()

		var extractedFrom string
		text := &mock.TextExtractor{
			ExtractPagesFn: func(ctx context.Context, path string) ([]pdfrules.Page, error) {
				extractedFrom = path
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, "%PDF-1.4", string(data))
				return []pdfrules.Page{{Number: 1, Text: "Invoice 1"}, {Number: 2}, {Number: 3, Text: "Total 5"}}, nil
			},
		}
		srv := pdfhttp.NewServer(text, &mock.ExtractionService{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, uploadRequest(t, "pdf_file", "march invoice.pdf", []byte("%PDF-1.4")))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="march invoice_extracted.txt"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "Invoice 1\nTotal 5\n", rec.Body.String())

		// The temporary copy is removed once the response is written.
		_, err := os.Stat(extractedFrom)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rejects non-pdf file name", func(t *testing.T) {
		t.Parallel()

		srv := pdfhttp.NewServer(staticPages(), &mock.ExtractionService{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, uploadRequest(t, "pdf_file", "invoice.docx", []byte("x")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "File must be a PDF", errorBody(t, rec))
	})

	t.Run("rejects file over the size limit", func(t *testing.T) {
		t.Parallel()

		srv := pdfhttp.NewServer(staticPages(), &mock.ExtractionService{}, pdfhttp.WithMaxUploadSize(16))

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, uploadRequest(t, "pdf_file", "big.pdf", bytes.Repeat([]byte("a"), 100)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "File size must not exceed 16 bytes", errorBody(t, rec))
	})

	t.Run("states whole megabyte limits in MB", func(t *testing.T) {
		t.Parallel()

		srv := pdfhttp.NewServer(staticPages(), &mock.ExtractionService{}, pdfhttp.WithMaxUploadSize(1<<20))

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, uploadRequest(t, "pdf_file", "big.pdf", bytes.Repeat([]byte("a"), 1<<20+1)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "File size must not exceed 1MB", errorBody(t, rec))
	})

	t.Run("warns about each page without text", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		srv := pdfhttp.NewServer(
			staticPages(pdfrules.Page{Number: 1, Text: "Invoice 1"}, pdfrules.Page{Number: 2}, pdfrules.Page{Number: 3}),
			&mock.ExtractionService{},
			pdfhttp.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		)

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, uploadRequest(t, "pdf_file", "invoice.pdf", []byte("x")))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Invoice 1\n", rec.Body.String())
		assert.Equal(t, 2, strings.Count(logs.String(), `msg="no text found on page"`))
		assert.Contains(t, logs.String(), "page=2")
		assert.Contains(t, logs.String(), "page=3")
	})

	t.Run("requires the pdf_file field", func(t *testing.T) {
		t.Parallel()

		srv := pdfhttp.NewServer(staticPages(), &mock.ExtractionService{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, uploadRequest(t, "file", "invoice.pdf", []byte("x")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "pdf_file is required", errorBody(t, rec))
	})

	t.Run("returns 400 when no text was found", func(t *testing.T) {
		t.Parallel()

		srv := pdfhttp.NewServer(staticPages(pdfrules.Page{Number: 1}, pdfrules.Page{Number: 2, Text: "  "}), &mock.ExtractionService{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, uploadRequest(t, "pdf_file", "scan.pdf", []byte("x")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No text could be extracted from the PDF", errorBody(t, rec))
	})

	t.Run("returns 500 when extraction fails", func(t *testing.T) {
		t.Parallel()

		text := &mock.TextExtractor{
			ExtractPagesFn: func(ctx context.Context, path string) ([]pdfrules.Page, error) {
				return nil, pdfrules.Errorf(pdfrules.ETEXTEXTRACTION, "not a PDF file")
			},
		}
		srv := pdfhttp.NewServer(text, &mock.ExtractionService{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, uploadRequest(t, "pdf_file", "broken.pdf", []byte("x")))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, strings.HasPrefix(errorBody(t, rec), "Error processing PDF:"))
	})

	t.Run("rejects other methods", func(t *testing.T) {
		t.Parallel()

		srv := pdfhttp.NewServer(staticPages(), &mock.ExtractionService{})

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/extract-text/", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("limits uploads per client", func(t *testing.T) {
		t.Parallel()

		srv := pdfhttp.NewServer(staticPages(pdfrules.Page{Number: 1, Text: "a"}), &mock.ExtractionService{},
			pdfhttp.WithClientLimiter(pdfhttp.NewClientLimiter(0.001, 1)))
		h := srv.Handler()

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, uploadRequest(t, "pdf_file", "a.pdf", []byte("x")))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, uploadRequest(t, "pdf_file", "a.pdf", []byte("x")))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}

func TestServer_CORS(t *testing.T) {
	t.Parallel()

	t.Run("answers preflight for allowed origin", func(t *testing.T) {
		t.Parallel()

		srv := pdfhttp.NewServer(staticPages(), &mock.ExtractionService{},
			pdfhttp.WithAllowedOrigins("http://localhost:5173"))

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/extract-text/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	srv := pdfhttp.NewServer(staticPages(), &mock.ExtractionService{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","service":"pdfrules"}`, rec.Body.String())
}
