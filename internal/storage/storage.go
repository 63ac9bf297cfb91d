package storage

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned when a key has no object behind it.
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored object without its content.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStorage is the capability surface the media pipeline needs from
// the backing object store. Keys are full paths including the post prefix.
type ObjectStorage interface {
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Read(ctx context.Context, key string) ([]byte, string, error)
	Write(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// Move renames an object. Implemented as copy+delete on S3; the source
	// must exist and the destination is overwritten if present.
	Move(ctx context.Context, from, to string) error
	Exists(ctx context.Context, key string) (bool, error)
	Head(ctx context.Context, key string) (ObjectInfo, error)
	// DeleteAll removes every object under prefix. Used when a post is
	// deleted and its whole media directory goes with it.
	DeleteAll(ctx context.Context, prefix string) error
}
