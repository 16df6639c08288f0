// Package storage defines the gateway interface to a remote object store.
//
// All providers (MinIO, S3-compatible backends, …) implement the Store
// interface. Callers depend only on this package — never on a specific
// provider package. The surface is deliberately narrow: probe a bucket,
// list under a prefix, fetch raw bytes for a key.
//
// Usage:
//
//	cfg := storage.DefaultConfig("localhost:9000", accessKey, secretKey)
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	res, err := store.List(ctx, "wedding-photos", storage.ListOptions{Delimited: true})
package storage

import (
	"context"
	"io"
)

// Store is the single interface all object storage providers must implement.
// Implementations translate SDK errors into *errs.Error kinds at this
// boundary so callers never see provider-specific error types.
type Store interface {
	// Head probes bucket existence and permission. Returns nil when the
	// bucket is reachable, ErrKindNotFound when it does not exist, and
	// ErrKindPermissionDenied when access is refused.
	Head(ctx context.Context, bucket string) error

	// List returns the objects in bucket under opts.Prefix.
	// With opts.Delimited, keys are grouped at the next path separator
	// and the immediate child prefixes are returned in ListResult.Prefixes.
	List(ctx context.Context, bucket string, opts ListOptions) (*ListResult, error)

	// Get opens a streaming handle to the object at key inside bucket.
	// The caller MUST close the returned reader.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// Close releases any held resources.
	Close() error
}
