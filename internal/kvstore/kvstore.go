// Package kvstore abstracts the persisted string-keyed store backing the
// session simulation, so production code and tests can inject different
// backends.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound indicates the key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is a synchronous string-keyed store. Values are opaque to the store;
// callers encode JSON into them.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
