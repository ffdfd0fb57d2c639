package storage

import (
	"context"
	"fmt"
	"strings"
)

// KeyCodec encodes the ordered key list kept under MetaKey
type KeyCodec interface {
	EncodeKeys(keys []string) (string, error)
	DecodeKeys(data string) ([]string, error)
}

// Index is the authoritative, ordered list of live document keys across
// all collections of one store. Collection scans enumerate it by prefix,
// so every add and delete must go through Register and Unregister.
//
// Index does no locking of its own; callers serialize read-modify-write
// sequences (see LockManager).
type Index struct {
	adapter Adapter
	codec   KeyCodec
}

// NewIndex creates an index persisted in adapter under MetaKey
func NewIndex(adapter Adapter, codec KeyCodec) *Index {
	return &Index{adapter: adapter, codec: codec}
}

// Keys returns every registered key in registration order
func (ix *Index) Keys(ctx context.Context) ([]string, error) {
	raw, ok, err := ix.adapter.Get(ctx, MetaKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read key index: %w", err)
	}
	if !ok || raw == "" {
		return []string{}, nil
	}
	keys, err := ix.codec.DecodeKeys(raw)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

// WithPrefix returns the registered keys starting with prefix, in index order
func (ix *Index) WithPrefix(ctx context.Context, prefix string) ([]string, error) {
	keys, err := ix.Keys(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	return matched, nil
}

// Register appends key to the index unless it is already present.
// It returns true when the key was added.
func (ix *Index) Register(ctx context.Context, key string) (bool, error) {
	keys, err := ix.Keys(ctx)
	if err != nil {
		return false, err
	}
	if indexOf(keys, key) >= 0 {
		return false, nil
	}
	return true, ix.write(ctx, append(keys, key))
}

// Unregister removes key from the index.
// It returns true when the key was present.
func (ix *Index) Unregister(ctx context.Context, key string) (bool, error) {
	keys, err := ix.Keys(ctx)
	if err != nil {
		return false, err
	}
	pos := indexOf(keys, key)
	if pos < 0 {
		return false, nil
	}
	keys = append(keys[:pos], keys[pos+1:]...)
	return true, ix.write(ctx, keys)
}

func (ix *Index) write(ctx context.Context, keys []string) error {
	raw, err := ix.codec.EncodeKeys(keys)
	if err != nil {
		return err
	}
	if err := ix.adapter.Set(ctx, MetaKey, raw); err != nil {
		return fmt.Errorf("failed to write key index: %w", err)
	}
	return nil
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
