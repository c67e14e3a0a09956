package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/pdfrules"
)

// uploadField is the multipart field carrying the PDF.
const uploadField = "pdf_file"

// handleExtractText returns the text layer of an uploaded PDF as a
// downloadable text file.
func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()

	// Leave room for multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, s.sizeMessage())
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "pdf_file is required")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !strings.HasSuffix(name, ".pdf") {
		writeError(w, http.StatusBadRequest, "File must be a PDF")
		return
	}
	if header.Size > s.maxUploadSize {
		writeError(w, http.StatusBadRequest, s.sizeMessage())
		return
	}

	logger := s.logger.With("file", name, "size", header.Size)

	tmp, err := os.CreateTemp("", "pdfrules-*.pdf")
	if err != nil {
		logger.Error("failed to create temp file", "err", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing PDF: %v", err))
		return
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, file)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		logger.Error("failed to buffer upload", "err", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing PDF: %v", err))
		return
	}

	pages, err := s.text.ExtractPages(r.Context(), tmp.Name())
	if err != nil {
		logger.Error("text extraction failed", "err", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error processing PDF: %v", err))
		return
	}

	for _, n := range pdfrules.EmptyPages(pages) {
		logger.Warn("no text found on page", "page", n)
	}
	text := pdfrules.ConcatPages(pages)
	if strings.TrimSpace(text) == "" {
		logger.Warn("no text could be extracted")
		writeError(w, http.StatusBadRequest, "No text could be extracted from the PDF")
		return
	}

	logger.Info("extracted text",
		"pages", len(pages),
		"chars", len(text),
		"duration", time.Since(begin),
	)

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_extracted.txt"`, stem))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

func (s *Server) sizeMessage() string {
	if s.maxUploadSize >= 1<<20 && s.maxUploadSize%(1<<20) == 0 {
		return fmt.Sprintf("File size must not exceed %dMB", s.maxUploadSize>>20)
	}
	return fmt.Sprintf("File size must not exceed %d bytes", s.maxUploadSize)
}
