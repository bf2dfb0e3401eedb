package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
)

// LocalStore is a BlobStore backed by a directory on the local filesystem.
// Storage paths are relative to the root and never contain path separators
// beyond the root itself, so a stored path can never escape the directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore, creating the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root cannot be empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

var _ portssvc.BlobStore = (*LocalStore)(nil)

// Put stores content under a sanitized version of suggestedName and returns
// the name as the storage path.
func (s *LocalStore) Put(_ context.Context, content io.Reader, suggestedName string) (string, error) {
	name := sanitizeName(suggestedName)
	if name == "" {
		return "", fmt.Errorf("%w: empty storage name", apperrors.ErrStorage)
	}

	f, err := os.OpenFile(filepath.Join(s.root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %v", apperrors.ErrStorage, name, err)
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: write %s: %v", apperrors.ErrStorage, name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %v", apperrors.ErrStorage, name, err)
	}
	return name, nil
}

// Open returns a reader over a previously stored blob.
func (s *LocalStore) Open(_ context.Context, storagePath string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.root, sanitizeName(storagePath)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: open %s: %v", apperrors.ErrStorage, storagePath, err)
	}
	return f, nil
}

// Delete removes a stored blob.
func (s *LocalStore) Delete(_ context.Context, storagePath string) error {
	err := os.Remove(filepath.Join(s.root, sanitizeName(storagePath)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: delete %s: %v", apperrors.ErrStorage, storagePath, err)
	}
	return nil
}

// sanitizeName strips any directory components from a name.
func sanitizeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
