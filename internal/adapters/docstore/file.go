// Package docstore persists JSON documents for the catalog cache and user
// profiles.
package docstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
	"github.com/ewilliams-labs/aidj/backend/internal/core/ports"
)

// FileStore keeps one file per key under a directory.
type FileStore struct {
	dir string
}

var _ ports.DocumentStore = (*FileStore)(nil)

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("docstore: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Most filesystems cap a name at 255 bytes. Escaped keys longer than
// maxEscapedName keep a readable prefix and end in a digest of the whole key.
const (
	maxEscapedName = 200
	hashedPrefix   = 120
)

// path escapes key so that it always maps to a single file inside dir.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, fileName(key)+".json")
}

func fileName(key string) string {
	escaped := url.PathEscape(key)
	if len(escaped) <= maxEscapedName {
		return escaped
	}

	// Do not cut through a %XX escape.
	cut := hashedPrefix
	if i := strings.LastIndexByte(escaped[:cut], '%'); i > cut-3 {
		cut = i
	}
	sum := sha256.Sum256([]byte(key))
	// PathEscape never emits "%~", so hashed names cannot collide with plain ones.
	return escaped[:cut] + "%~" + hex.EncodeToString(sum[:])
}

// Get returns the document stored under key, or domain.ErrNotFound.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("docstore: %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: read %q: %w", key, err)
	}
	return b, nil
}

// Put writes doc under key. The write goes to a temp file first and is renamed
// into place, so readers never observe a partial document.
func (s *FileStore) Put(ctx context.Context, key string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("docstore: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("docstore: write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("docstore: close %q: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return fmt.Errorf("docstore: commit %q: %w", key, err)
	}
	return nil
}
