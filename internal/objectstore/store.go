// Package objectstore persists attachment binaries in S3-compatible storage.
// Objects are written before the database rows that reference them, so a
// committed attachment row always points at a stored object.
package objectstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when no object exists under the name.
var ErrNotFound = errors.New("object not found")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Name        string
	Size        int64
	ContentType string
}

// Store reads and writes attachment objects.
type Store interface {
	// Put stores one object under name with the given content type.
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error

	// Get opens the named object for reading along with its metadata.
	// The caller closes the reader.
	Get(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error)
}
