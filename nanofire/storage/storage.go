// Package storage provides the key-value substrate documents are persisted in.
// It defines the Adapter interface implemented by the backends, an in-memory
// adapter, and the Index that tracks every live document key.
package storage

import (
	"context"
)

// MetaKey is the reserved key holding the encoded key index
const MetaKey = "meta"

// Adapter defines the low-level string store.
// Keys are arbitrary strings; document keys have the form "<collection>/<id>".
type Adapter interface {
	// Get returns the value stored under key and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases any resources held by the adapter
	Close() error
}
