package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aishanaaz19/assignment-growthx/config"
)

var (
	// ErrObjectNotFound is returned by Get when the key does not exist.
	ErrObjectNotFound = errors.New("object not found")

	// ErrObjectTooLarge is returned by Put for objects over MaxObjectBytes.
	ErrObjectTooLarge = errors.New("object too large")
)

// MaxObjectBytes caps the size of a single attachment.
const MaxObjectBytes int64 = 25 << 20

// Backend defines common object operations across providers.
type Backend interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
	Close() error
}

// Storage keeps assignment attachments in a single bucket.
type Storage struct {
	backend Backend
}

// NewStorage wraps a provider backend.
func NewStorage(backend Backend) *Storage {
	return &Storage{backend: backend}
}

// Open builds the backend selected by cfg.StorageBackend and makes sure its
// bucket exists. It returns nil without error when attachments are disabled.
func Open(ctx context.Context, cfg config.Config) (*Storage, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.StorageBackend {
	case "", config.BackendNone:
		return nil, nil
	case config.StorageMinio:
		backend, err = NewMinioClient(cfg.Minio)
	case config.StorageGCS:
		backend, err = NewGCSClient(ctx, cfg.GCS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, err
	}

	if err := backend.EnsureBucket(ctx); err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("ensure bucket %s: %w", backend.Bucket(), err)
	}
	return NewStorage(backend), nil
}

// Put uploads an object. Objects larger than MaxObjectBytes are refused.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if size > MaxObjectBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrObjectTooLarge, key, size, MaxObjectBytes)
	}
	return s.backend.Put(ctx, key, r, size, contentType)
}

// Get opens a reader for an object. A missing key yields ErrObjectNotFound.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	return s.backend.Get(ctx, key)
}

// Delete removes an object. A missing key yields ErrObjectNotFound on GCS.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return s.backend.Delete(ctx, key)
}

// Bucket returns the name of the backing bucket.
func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

func (s *Storage) Close() error {
	return s.backend.Close()
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}
