package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrObjectNotFound = errors.New("object not found in storage")

// ObjectInfo describes a stored object as returned by a listing.
// LastModified is the zero time when the backend does not report it.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Name is the last path segment of the key.
func (o ObjectInfo) Name() string {
	return path.Base(o.Key)
}

// FileStorage defines object storage operations on a single bucket.
type FileStorage interface {
	// Upload stores body under key, replacing nothing: callers generate unique keys.
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// List returns every object whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// PublicURL returns a URL the browser can fetch the object from.
	PublicURL(ctx context.Context, key string) (string, error)

	// Bucket names the backing bucket, used in logs and metrics.
	Bucket() string
}
