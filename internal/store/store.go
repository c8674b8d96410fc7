package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Repository is the data access interface: a flat key-value space of JSON
// documents. All persistence goes through here. Implementations must be safe
// for concurrent use.
type Repository interface {
	Ping(ctx context.Context) error
	Close() error

	// Get returns the raw value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Create stores value under a new key, or returns ErrDuplicateKey.
	Create(ctx context.Context, key string, value []byte) error
	// Put creates or replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// ListByPrefix returns every entry whose key starts with prefix, most
	// recently written first.
	ListByPrefix(ctx context.Context, prefix string) ([]Entry, error)
}

// Entry is a stored key and its raw value.
type Entry struct {
	Key   string
	Value []byte
}

// escapeLike escapes LIKE wildcards so a prefix is matched literally.
func escapeLike(prefix string) string {
	out := make([]byte, 0, len(prefix))
	for i := 0; i < len(prefix); i++ {
		switch c := prefix[i]; c {
		case '\\', '%', '_':
			out = append(out, '\\', c)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
