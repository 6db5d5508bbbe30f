package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aishanaaz19/assignment-growthx/config"
)

type fakeBackend struct {
	objects map[string][]byte
	closed  bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{objects: map[string][]byte{}}
}

func (f *fakeBackend) EnsureBucket(context.Context) error { return nil }

func (f *fakeBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBackend) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeBackend) Bucket() string { return "attachments" }

func (f *fakeBackend) Close() error {
	f.closed = true
	return nil
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := newFakeBackend()
	s := NewStorage(backend)

	if err := s.Put(ctx, "assignments/a1/essay.txt", strings.NewReader("hello"), 5, "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}
	body, err := s.Get(ctx, "assignments/a1/essay.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(body)
	if string(data) != "hello" {
		t.Fatalf("unexpected data %q", data)
	}

	if err := s.Delete(ctx, "assignments/a1/essay.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "assignments/a1/essay.txt"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}

	if err := s.Close(); err != nil || !backend.closed {
		t.Fatalf("close should reach the backend")
	}
}

func TestStorageRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s := NewStorage(newFakeBackend())

	for _, key := range []string{"", "  ", "/abs/key", "assignments/../secret"} {
		if err := s.Put(ctx, key, strings.NewReader("x"), 1, ""); err == nil {
			t.Fatalf("expected %q to be rejected", key)
		}
	}

	if err := s.Put(ctx, "assignments/a1/big.bin", strings.NewReader(""), MaxObjectBytes+1, ""); !errors.Is(err, ErrObjectTooLarge) {
		t.Fatalf("expected ErrObjectTooLarge, got %v", err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.Config{StorageBackend: config.BackendNone})
	if err != nil || s != nil {
		t.Fatalf("expected disabled storage, got %v %v", s, err)
	}

	if _, err := Open(ctx, config.Config{StorageBackend: "ftp"}); err == nil {
		t.Fatalf("expected unknown backend error")
	}

	_, err = Open(ctx, config.Config{StorageBackend: config.StorageMinio})
	if err == nil || !strings.Contains(err.Error(), "endpoint") {
		t.Fatalf("expected missing endpoint error, got %v", err)
	}

	_, err = Open(ctx, config.Config{StorageBackend: config.StorageGCS})
	if err == nil || !strings.Contains(err.Error(), "bucket") {
		t.Fatalf("expected missing bucket error, got %v", err)
	}
}
