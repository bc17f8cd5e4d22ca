// Package archive stores exported signal history snapshots on the local
// filesystem or in an S3-compatible bucket.
package archive

import "context"

// Storage is a flat key/value blob store.
type Storage interface {
	Write(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths under prefix, relative to the store root.
	List(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, path string) (bool, error)
}
