package nanofire

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/arthur-debert/nanofire/nanofire/codec"
	"github.com/arthur-debert/nanofire/nanofire/ids"
	"github.com/arthur-debert/nanofire/nanofire/storage"
	"github.com/arthur-debert/nanofire/types"
)

// Document is a JSON-compatible record keyed by field name.
// A nil Document means the document is absent.
type Document = types.Document

// Codec serializes documents and the key index
type Codec interface {
	storage.KeyCodec
	EncodeDocument(doc Document) (string, error)
	DecodeDocument(data string) (Document, error)
}

// DB binds collections to one storage namespace. All collections of a DB
// share its key index and its lock manager.
type DB struct {
	adapter storage.Adapter
	index   *storage.Index
	codec   Codec
	ids     ids.Generator
	locks   *storage.LockManager
	logger  *slog.Logger
}

// Option configures a DB
type Option func(*DB)

// WithLogger sets the logger used for operation tracing.
// The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(db *DB) {
		db.logger = logger
	}
}

// WithIDGenerator replaces the UUID generator used by AddDoc
func WithIDGenerator(gen ids.Generator) Option {
	return func(db *DB) {
		db.ids = gen
	}
}

// WithCodec replaces the JSON codec
func WithCodec(c Codec) Option {
	return func(db *DB) {
		db.codec = c
	}
}

// New creates a DB over adapter
func New(adapter storage.Adapter, opts ...Option) *DB {
	db := &DB{
		adapter: adapter,
		locks:   storage.NewLockManager(),
	}

	for _, opt := range opts {
		opt(db)
	}

	// Set defaults for dependencies not provided via options
	if db.codec == nil {
		db.codec = codec.NewJSON()
	}
	if db.ids == nil {
		db.ids = ids.UUIDGenerator{}
	}
	if db.logger == nil {
		db.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	db.index = storage.NewIndex(adapter, db.codec)

	return db
}

// Close releases the underlying adapter
func (db *DB) Close() error {
	return db.adapter.Close()
}

// Collection returns a reference to the named collection.
// Invalid names produce a reference whose operations fail with ErrInvalidArgument.
func (db *DB) Collection(name string) *CollectionRef {
	return &CollectionRef{col: newCollection(db, name)}
}

// Doc returns a reference to document id in collection name.
// An empty id mints a reference with a freshly generated id.
func (db *DB) Doc(name, id string) *DocumentRef {
	return db.Collection(name).Doc(id)
}

// Collections lists the names of collections that hold at least one
// document, sorted alphabetically.
func (db *DB) Collections(ctx context.Context) ([]string, error) {
	var keys []string
	err := db.locks.Execute(storage.ReadOperation, func() error {
		var err error
		keys, err = db.index.Keys(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, key := range keys {
		name, _, ok := strings.Cut(key, "/")
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
