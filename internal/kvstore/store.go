package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrNilStore is returned when a nil store is used.
	ErrNilStore = errors.New("kvstore: nil store")
	// ErrEmptyKey is returned when a key is empty.
	ErrEmptyKey = errors.New("kvstore: empty key")
)

// Store is a namespaced key-value store for JSON-serialized records.
// Implementations persist whole values; there is no partial update.
type Store interface {
	// Get returns the value for key. A missing key yields (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Keys returns all keys with the given prefix, in unspecified order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
