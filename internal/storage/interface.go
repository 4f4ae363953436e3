package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStorage is the bucket the raw page archive writes to.
type ObjectStorage interface {
	// Put stores body under key, replacing any existing object
	Put(ctx context.Context, key string, body []byte, contentType string) error

	// Get reads the object stored under key
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns every key under prefix in lexical order
	List(ctx context.Context, prefix string) ([]string, error)

	// URL returns the public URL of key, or "" when none is configured
	URL(key string) string
}
