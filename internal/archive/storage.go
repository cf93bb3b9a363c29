package archive

import (
	"context"
	"fmt"
)

// Storage is where snapshots are kept. Paths are slash separated and
// relative to the storage root.
type Storage interface {
	// Write stores data at the given path, replacing anything there
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths under prefix in lexical order
	List(ctx context.Context, prefix string) ([]string, error)
}

// Storage backends
const (
	TypeLocalFS = "localfs"
	TypeS3      = "s3"
)

// NewStorage builds the backend named by typ.
func NewStorage(typ, path string, s3cfg S3Config) (Storage, error) {
	switch typ {
	case TypeLocalFS, "":
		return NewLocalFS(path)
	case TypeS3:
		return NewS3(s3cfg)
	default:
		return nil, fmt.Errorf("unknown archive type %q", typ)
	}
}
