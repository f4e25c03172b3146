package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bootcamp-directory/config"
)

func TestLocalStore_Put(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewLocalStore(dir)

	ref, err := store.Put(context.Background(), "../photo_1.jpg", "image/jpeg", 5, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "photo_1.jpg", ref)

	b, err := os.ReadFile(filepath.Join(dir, "photo_1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestLocalStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocalStore(t.TempDir()).Put(ctx, "a.jpg", "image/jpeg", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Drivers(t *testing.T) {
	s, err := New(context.Background(), &config.Config{StorageDriver: "local", FileUploadPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = New(context.Background(), &config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), &config.Config{StorageDriver: "s3"})
	assert.Error(t, err)
}

func TestS3Store_ObjectURL(t *testing.T) {
	s := &S3Store{opts: S3Options{Bucket: "camps", Region: "us-east-1"}}
	assert.Equal(t, "https://camps.s3.us-east-1.amazonaws.com/bootcamps/a.jpg", s.objectURL("bootcamps/a.jpg"))

	s.opts.Endpoint = "http://localhost:9000/"
	assert.Equal(t, "http://localhost:9000/camps/bootcamps/a.jpg", s.objectURL("bootcamps/a.jpg"))
}
