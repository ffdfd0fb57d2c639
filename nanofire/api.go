package nanofire

import "context"

// Queryable is anything GetDocs can evaluate: a *CollectionRef (every
// document) or a *Query
type Queryable interface {
	asQuery() *Query
}

func (r *CollectionRef) asQuery() *Query {
	return NewQuery(r)
}

func (q *Query) asQuery() *Query {
	return q
}

// AddDoc stores doc in the collection under a generated id
func AddDoc(ctx context.Context, ref *CollectionRef, doc Document) (*DocumentRef, error) {
	return ref.AddDoc(ctx, doc)
}

// SetDoc creates or replaces the document at ref. Pass Merge() to keep
// fields that doc does not mention.
func SetDoc(ctx context.Context, ref *DocumentRef, doc Document, opts ...SetOption) error {
	return ref.SetDoc(ctx, doc, opts...)
}

// UpdateDoc merges doc into the document at ref, creating it when absent
func UpdateDoc(ctx context.Context, ref *DocumentRef, doc Document) error {
	return ref.SetDoc(ctx, doc, Merge())
}

// DeleteDoc removes the document at ref. It is idempotent.
func DeleteDoc(ctx context.Context, ref *DocumentRef) error {
	return ref.DeleteDoc(ctx)
}

// GetDoc returns an unevaluated snapshot of the document at ref
func GetDoc(ref *DocumentRef) *Snapshot {
	return newSnapshot(ref)
}

// GetDocs returns an unevaluated snapshot of a collection or query
func GetDocs(src Queryable) *QuerySnapshot {
	return newQuerySnapshot(src.asQuery())
}
