// Package fs stores uploaded documents on the local filesystem.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// UploadSubdir is the directory below the store root that receives uploads.
const UploadSubdir = "pdf"

// StoredFile describes a file written by FileStore.
type StoredFile struct {
	// Path is the location of the stored file.
	Path string
	// Name is the base name of the original upload.
	Name string
	Size int64
	// Hash is the hex xxhash64 of the content.
	Hash string
}

// FileStore saves uploads below baseDir/pdf. Files are written to a
// temporary name first and renamed into place once complete.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a new FileStore rooted at baseDir.
func NewFileStore(baseDir string) *FileStore {
	return &FileStore{baseDir: baseDir}
}

// Dir returns the directory uploads are stored in.
func (s *FileStore) Dir() string {
	return filepath.Join(s.baseDir, UploadSubdir)
}

// Save copies r into the store under name. If a file with the same name
// exists, a short random suffix is added before the extension.
func (s *FileStore) Save(ctx context.Context, name string, r io.Reader) (*StoredFile, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file name %q", name)
	}

	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.Dir(), ".upload-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	h := xxhash.New()
	size, err := io.Copy(io.MultiWriter(tmp, h), &ctxReader{ctx: ctx, r: r})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	dst := s.uniquePath(base)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return nil, err
	}

	return &StoredFile{
		Path: dst,
		Name: base,
		Size: size,
		Hash: strconv.FormatUint(h.Sum64(), 16),
	}, nil
}

// SaveFile copies the file at path into the store.
func (s *FileStore) SaveFile(ctx context.Context, path string) (*StoredFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Save(ctx, filepath.Base(path), f)
}

func (s *FileStore) uniquePath(base string) string {
	dst := filepath.Join(s.Dir(), base)
	if _, err := os.Stat(dst); os.IsNotExist(err) {
		return dst
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:7]
	return filepath.Join(s.Dir(), stem+"_"+suffix+ext)
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
