package nanofire

import (
	"context"
	"time"

	"github.com/arthur-debert/nanofire/nanofire/query"
	"github.com/arthur-debert/nanofire/nanofire/storage"
)

// CollectionRef is a stateless handle to a collection.
// It mints document references and evaluates query pipelines.
type CollectionRef struct {
	col *Collection
}

// ID returns the collection name
func (r *CollectionRef) ID() string {
	return r.col.name
}

// Path returns the key prefix of the collection without the trailing slash
func (r *CollectionRef) Path() string {
	return r.col.name
}

// Collection returns the underlying CRUD collection
func (r *CollectionRef) Collection() *Collection {
	return r.col
}

// Doc returns a reference to document id. An empty id mints a new id.
func (r *CollectionRef) Doc(id string) *DocumentRef {
	if id == "" {
		id = r.col.db.ids.NewID()
	}
	return &DocumentRef{col: r.col, id: id}
}

// NewDoc returns a reference with a freshly generated id and no data
func (r *CollectionRef) NewDoc() *DocumentRef {
	return r.Doc("")
}

// AddDoc stores doc under a freshly generated id and returns its reference
func (r *CollectionRef) AddDoc(ctx context.Context, doc Document) (*DocumentRef, error) {
	ref := r.NewDoc()
	if _, err := r.col.Add(ctx, ref.id, doc); err != nil {
		return nil, err
	}
	return ref, nil
}

// Apply scans the whole collection and folds stages over the result in
// declaration order. Invalid stages fail before any document is read.
func (r *CollectionRef) Apply(ctx context.Context, stages []query.Stage) ([]Document, error) {
	if err := query.Validate(stages); err != nil {
		return nil, opError("query", r.col.name, err)
	}

	start := time.Now()
	docs, err := r.col.All(ctx)
	if err != nil {
		return nil, err
	}

	result, err := query.Apply(docs, stages)
	if err != nil {
		return nil, opError("query", r.col.name, err)
	}

	r.col.db.logger.Debug("query evaluated",
		"collection", r.col.name,
		"stages", query.Describe(stages),
		"scanned", len(docs),
		"result_count", len(result),
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// Query starts a query over the collection
func (r *CollectionRef) Query(stages ...query.Stage) *Query {
	return NewQuery(r, stages...)
}

// DocumentRef identifies one (collection, id) slot, which may or may not
// hold a document.
type DocumentRef struct {
	col *Collection
	id  string
}

// ID returns the document id
func (r *DocumentRef) ID() string {
	return r.id
}

// Path returns the storage key "<collection>/<id>"
func (r *DocumentRef) Path() string {
	return r.col.key(r.id)
}

// Parent returns the reference of the owning collection
func (r *DocumentRef) Parent() *CollectionRef {
	return &CollectionRef{col: r.col}
}

// SetOption configures SetDoc
type SetOption func(*setConfig)

type setConfig struct {
	merge bool
}

// Merge makes SetDoc lay the new fields over the existing document
// instead of replacing it
func Merge() SetOption {
	return func(c *setConfig) {
		c.merge = true
	}
}

// SetDoc writes doc at the reference's id.
//
// If no document exists it is created at this id. If one exists it is
// replaced entirely, or with Merge() shallow-merged so fields not in doc
// survive. The id field always equals the reference id.
func (r *DocumentRef) SetDoc(ctx context.Context, doc Document, opts ...SetOption) error {
	cfg := setConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	err := r.col.db.locks.Execute(storage.WriteOperation, func() error {
		existing, err := r.col.find(ctx, r.id)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			_, err = r.col.add(ctx, r.id, doc)
		case cfg.merge:
			err = r.col.update(ctx, r.id, existing.Merge(doc))
		default:
			err = r.col.update(ctx, r.id, doc)
		}
		return err
	})
	return opError("set", r.Path(), err)
}

// GetDoc returns the stored document, or nil when there is none
func (r *DocumentRef) GetDoc(ctx context.Context) (Document, error) {
	return r.col.Find(ctx, r.id)
}

// DeleteDoc removes the document. Deleting a missing document is a no-op.
func (r *DocumentRef) DeleteDoc(ctx context.Context) error {
	return r.col.Delete(ctx, r.id)
}
