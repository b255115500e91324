// Package storage defines the key-value blob surface cart state is
// persisted through. Implementations live in the subpackages.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no blob exists under the key.
var ErrNotFound = errors.New("blob not found")

// Blobs is a minimal key to opaque-bytes store.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
	Del(ctx context.Context, key string) error
}
