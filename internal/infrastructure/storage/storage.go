// Package storage holds the blob stores used for uploaded bootcamp photos.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/oksasatya/bootcamp-directory/config"
)

// BlobStore persists an uploaded file under name and returns the reference
// saved on the owning record.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error)
	Close() error
}

// New builds the store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (BlobStore, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStore(cfg.FileUploadPath), nil
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSONPath)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
