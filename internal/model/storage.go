package model

import (
	"context"
	"io"
)

// ObjectInfo describes a stored blob.
type ObjectInfo struct {
	Size        int64
	ContentType string
}

type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Stat returns ErrNotFound when the key does not exist.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}
