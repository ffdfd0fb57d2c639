package nanofire

import (
	"context"
	"fmt"

	"github.com/arthur-debert/nanofire/internal/validation"
	"github.com/arthur-debert/nanofire/nanofire/storage"
)

// Collection is the CRUD primitive over one named partition of the store.
// Documents are stored under "<name>/<id>" and enumerated through the
// DB's key index.
//
// Exported methods take the DB lock themselves. The unexported variants
// assume the caller already holds it, so composite operations like SetDoc
// run as one unit.
type Collection struct {
	name string
	db   *DB
	err  error
}

func newCollection(db *DB, name string) *Collection {
	return &Collection{
		name: name,
		db:   db,
		err:  validation.CollectionName(name),
	}
}

// Name returns the collection name
func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) key(id string) string {
	return c.name + "/" + id
}

func (c *Collection) prefix() string {
	return c.name + "/"
}

func (c *Collection) check(id string) error {
	if c.err != nil {
		return c.err
	}
	return validation.DocumentID(id)
}

// Add writes doc with its id field set to id and registers the key in the
// index. Re-adding an existing id overwrites the value without duplicating
// the index entry. It returns the stored document.
func (c *Collection) Add(ctx context.Context, id string, doc Document) (Document, error) {
	var stored Document
	err := c.db.locks.Execute(storage.WriteOperation, func() error {
		var err error
		stored, err = c.add(ctx, id, doc)
		return err
	})
	return stored, opError("add", c.key(id), err)
}

// Find returns the document stored under id, or nil when there is none
func (c *Collection) Find(ctx context.Context, id string) (Document, error) {
	var doc Document
	err := c.db.locks.Execute(storage.ReadOperation, func() error {
		var err error
		doc, err = c.find(ctx, id)
		return err
	})
	return doc, opError("find", c.key(id), err)
}

// Update overwrites the stored value for id. It does not touch the index;
// the key was registered when the document was added.
func (c *Collection) Update(ctx context.Context, id string, doc Document) error {
	err := c.db.locks.Execute(storage.WriteOperation, func() error {
		return c.update(ctx, id, doc)
	})
	return opError("update", c.key(id), err)
}

// Delete removes the document and its index entry.
// Deleting a missing document is a no-op.
func (c *Collection) Delete(ctx context.Context, id string) error {
	err := c.db.locks.Execute(storage.WriteOperation, func() error {
		_, err := c.delete(ctx, id)
		return err
	})
	return opError("delete", c.key(id), err)
}

// All returns every document of the collection in index order
func (c *Collection) All(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := c.db.locks.Execute(storage.ReadOperation, func() error {
		var err error
		docs, err = c.all(ctx)
		return err
	})
	return docs, opError("list", c.name, err)
}

func (c *Collection) add(ctx context.Context, id string, doc Document) (Document, error) {
	if err := c.check(id); err != nil {
		return nil, err
	}

	stored, err := c.write(ctx, id, doc)
	if err != nil {
		return nil, err
	}

	added, err := c.db.index.Register(ctx, c.key(id))
	if err != nil {
		return nil, err
	}

	c.db.logger.Debug("document added",
		"collection", c.name,
		"id", id,
		"new_key", added)
	return stored, nil
}

func (c *Collection) find(ctx context.Context, id string) (Document, error) {
	if err := c.check(id); err != nil {
		return nil, err
	}
	return c.read(ctx, c.key(id))
}

func (c *Collection) update(ctx context.Context, id string, doc Document) error {
	if err := c.check(id); err != nil {
		return err
	}
	if _, err := c.write(ctx, id, doc); err != nil {
		return err
	}

	c.db.logger.Debug("document updated", "collection", c.name, "id", id)
	return nil
}

func (c *Collection) delete(ctx context.Context, id string) (bool, error) {
	if err := c.check(id); err != nil {
		return false, err
	}

	key := c.key(id)
	removed, err := c.db.index.Unregister(ctx, key)
	if err != nil {
		return false, err
	}
	if err := c.db.adapter.Remove(ctx, key); err != nil {
		return false, fmt.Errorf("failed to remove %s: %w", key, err)
	}

	c.db.logger.Debug("document deleted",
		"collection", c.name,
		"id", id,
		"existed", removed)
	return removed, nil
}

func (c *Collection) all(ctx context.Context) ([]Document, error) {
	if c.err != nil {
		return nil, c.err
	}

	keys, err := c.db.index.WithPrefix(ctx, c.prefix())
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(keys))
	for _, key := range keys {
		doc, err := c.read(ctx, key)
		if err != nil {
			return nil, err
		}
		// The index may name a key whose value vanished underneath us
		if doc == nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// write encodes doc with the id forced and stores it. The returned document
// is the decoded form of what was stored.
func (c *Collection) write(ctx context.Context, id string, doc Document) (Document, error) {
	if err := validation.Document(doc); err != nil {
		return nil, err
	}

	key := c.key(id)
	encoded, err := c.db.codec.EncodeDocument(doc.WithID(id))
	if err != nil {
		return nil, err
	}
	if err := c.db.adapter.Set(ctx, key, encoded); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", key, err)
	}
	return c.db.codec.DecodeDocument(encoded)
}

func (c *Collection) read(ctx context.Context, key string) (Document, error) {
	raw, ok, err := c.db.adapter.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	doc, err := c.db.codec.DecodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return doc, nil
}
