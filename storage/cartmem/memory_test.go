package cartmem

import (
	"context"
	"errors"
	"testing"

	"github.com/irsalhamdi/e-commerce-shop/storage"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}

	b, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(b) != "v1" {
		t.Fatalf("expected v1, got %s", b)
	}

	// The store must hand out copies, not aliases.
	b[0] = 'X'
	b2, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(b2) != "v1" {
		t.Fatalf("stored blob was mutated through a returned slice")
	}

	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("deleting an absent key must be a no-op, got %v", err)
	}
}
