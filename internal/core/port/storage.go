package port

import (
	"context"
	"io"
	"time"
)

// ObjectInfo is the subset of object metadata the core needs
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// ObjectStorage is an interface to define object storage interactions
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	GetObjectInfo(ctx context.Context, key string) (*ObjectInfo, error)
	GetHeaderBytes(ctx context.Context, key string, n int64) ([]byte, error)
	// StreamURL returns a presigned, independently addressable URL for the
	// object, suitable for handing to the processing provider.
	StreamURL(ctx context.Context, key string) (string, *time.Time, error)
	DeleteObject(ctx context.Context, key string) error
}
