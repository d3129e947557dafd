package usecase

import (
	"context"
	"io"
)

// FileStorageProvider keeps the original uploaded bytes. Storage is
// incidental to registration: the fingerprint is the record of interest.
type FileStorageProvider interface {
	// Put streams r to path. size may be -1 when unknown.
	Put(ctx context.Context, path string, r io.Reader, size int64) error
	GetPresignedURL(ctx context.Context, path string) (string, error)
}
