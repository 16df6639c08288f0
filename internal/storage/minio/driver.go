// Package minio provides a MinIO implementation of storage.Store.
//
// Usage:
//
//	cfg := storage.DefaultConfig("localhost:9000", accessKey, secretKey)
//	store, err := minio.New(cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	if err := store.Head(ctx, bucket); err != nil { ... }
package minio

import (
	"context"
	"io"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nmurali/pixvault/internal/errs"
	"github.com/nmurali/pixvault/internal/storage"
)

// Driver is a MinIO implementation of storage.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
}

// New builds a Driver from the provided Config. Connectivity is not
// verified here — callers probe the bucket with Head at startup.
func New(cfg *storage.Config) (*Driver, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConfig, "failed to create minio client", err)
	}

	return &Driver{client: client}, nil
}

// --- storage.Store implementation ---

// Head probes bucket existence and permission.
func (d *Driver) Head(ctx context.Context, bucket string) error {
	exists, err := d.client.BucketExists(ctx, bucket)
	if err != nil {
		return mapError(err, "bucket probe failed")
	}
	if !exists {
		return errs.New(errs.ErrKindNotFound, "bucket not found: "+bucket)
	}
	return nil
}

// Close is a no-op for MinIO — the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// List returns objects in bucket that match opts. With opts.Delimited the
// SDK groups keys at the next separator; those group entries arrive with a
// trailing "/" and are split out into ListResult.Prefixes.
func (d *Driver) List(ctx context.Context, bucket string, opts storage.ListOptions) (*storage.ListResult, error) {
	listOpts := miniogo.ListObjectsOptions{
		Prefix:    opts.Prefix,
		Recursive: !opts.Delimited,
	}

	res := &storage.ListResult{}

	for obj := range d.client.ListObjects(ctx, bucket, listOpts) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "failed to list objects")
		}

		if strings.HasSuffix(obj.Key, "/") && obj.Size == 0 {
			res.Prefixes = append(res.Prefixes, obj.Key)
			continue
		}

		if opts.MaxKeys > 0 && len(res.Objects) >= opts.MaxKeys {
			res.Truncated = true
			break
		}

		res.Objects = append(res.Objects, storage.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
	}

	return res, nil
}

// Get opens a streaming handle to the object at key inside bucket.
// The caller MUST close the returned reader.
func (d *Driver) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := d.client.GetObject(ctx, bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "failed to get object")
	}

	// GetObject is lazy; Stat forces the request so missing keys fail
	// here instead of on first Read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, mapError(err, "failed to stat object after get")
	}

	return obj, nil
}
