package storage

import (
	"context"
	"io"
)

// BlobStore is a bucket addressed by object name. URLs returned by Put are
// durable and accepted back by Open and Delete.
type BlobStore interface {
	Put(ctx context.Context, objectName string, r io.Reader, contentType string) (string, error)
	Open(ctx context.Context, url string) (io.ReadCloser, error)
	Delete(ctx context.Context, url string) error
	Close() error
}
