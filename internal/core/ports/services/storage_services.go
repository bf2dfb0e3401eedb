package services

import (
	"context"
	"io"
)

// BlobStore persists report attachments. The backend is chosen at deployment
// time (local disk today); the interface keeps it swappable.
type BlobStore interface {
	// Put stores the content under a name derived from suggestedName and
	// returns the storage path to persist with the file record.
	Put(ctx context.Context, content io.Reader, suggestedName string) (string, error)

	// Open returns a reader over a previously stored blob.
	Open(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes a stored blob. Returns apperrors.ErrNotFound when the
	// path does not resolve.
	Delete(ctx context.Context, storagePath string) error
}
