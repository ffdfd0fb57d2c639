package nanofire

import (
	"context"
	"sync"
)

// Snapshot is the memoized read of one document reference.
//
// Nothing is read when the snapshot is created. The first successful call
// to Data fills the cache, and later calls return the cached value even if
// the document changed since. Take a new snapshot to observe new writes.
// A failed read leaves the snapshot unevaluated.
type Snapshot struct {
	ref *DocumentRef

	mu        sync.Mutex
	evaluated bool
	data      Document
}

func newSnapshot(ref *DocumentRef) *Snapshot {
	return &Snapshot{ref: ref}
}

// Ref returns the reference the snapshot reads
func (s *Snapshot) Ref() *DocumentRef {
	return s.ref
}

// ID returns the id of the referenced document
func (s *Snapshot) ID() string {
	return s.ref.id
}

// Data materializes the snapshot on first use and returns the document,
// or nil when it does not exist
func (s *Snapshot) Data(ctx context.Context) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.evaluated {
		return s.data, nil
	}

	doc, err := s.ref.GetDoc(ctx)
	if err != nil {
		return nil, err
	}
	s.data = doc
	s.evaluated = true
	return s.data, nil
}

// Exists reports whether the document was present when the snapshot was
// materialized
func (s *Snapshot) Exists(ctx context.Context) (bool, error) {
	doc, err := s.Data(ctx)
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

// Evaluated reports whether the snapshot has been materialized
func (s *Snapshot) Evaluated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluated
}

// QuerySnapshot is the memoized result of a query.
// The query runs once, on the first successful call to Data.
type QuerySnapshot struct {
	query *Query

	mu        sync.Mutex
	evaluated bool
	docs      []Document
}

func newQuerySnapshot(q *Query) *QuerySnapshot {
	return &QuerySnapshot{query: q}
}

// Query returns the query the snapshot evaluates
func (s *QuerySnapshot) Query() *Query {
	return s.query
}

// Data materializes the snapshot on first use and returns the matching
// documents. Later calls return the same slice without re-evaluating.
func (s *QuerySnapshot) Data(ctx context.Context) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.evaluated {
		return s.docs, nil
	}

	docs, err := s.query.ref.Apply(ctx, s.query.stages)
	if err != nil {
		return nil, err
	}
	s.docs = docs
	s.evaluated = true
	return s.docs, nil
}

// Size returns the number of matching documents
func (s *QuerySnapshot) Size(ctx context.Context) (int, error) {
	docs, err := s.Data(ctx)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Empty reports whether the query matched nothing
func (s *QuerySnapshot) Empty(ctx context.Context) (bool, error) {
	n, err := s.Size(ctx)
	return n == 0, err
}

// Docs returns one already-materialized Snapshot per matching document
func (s *QuerySnapshot) Docs(ctx context.Context) ([]*Snapshot, error) {
	docs, err := s.Data(ctx)
	if err != nil {
		return nil, err
	}
	col := s.query.ref.col
	snaps := make([]*Snapshot, len(docs))
	for i, doc := range docs {
		snaps[i] = &Snapshot{
			ref:       &DocumentRef{col: col, id: doc.ID()},
			evaluated: true,
			data:      doc,
		}
	}
	return snaps, nil
}

// ForEach calls fn for every matching document in order, stopping at the
// first error fn returns
func (s *QuerySnapshot) ForEach(ctx context.Context, fn func(Document) error) error {
	docs, err := s.Data(ctx)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

// Evaluated reports whether the snapshot has been materialized
func (s *QuerySnapshot) Evaluated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluated
}
