package storage

import (
	"context"
	"errors"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
)

type GCSStore struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewGCSStore(ctx context.Context, bucket, credsPath string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required for gcs storage")
	}
	client, err := helpers.NewGCSClient(ctx, credsPath)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: client, bucket: bucket, prefix: "bootcamps/"}, nil
}

// Put uploads into bucket/bootcamps/<name> and returns the public URL.
func (s *GCSStore) Put(ctx context.Context, name, contentType string, _ int64, r io.Reader) (string, error) {
	objectPath := s.prefix + name
	wc := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return helpers.PublicURL(s.bucket, objectPath), nil
}

func (s *GCSStore) Close() error { return s.client.Close() }
