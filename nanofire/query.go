package nanofire

import (
	"github.com/arthur-debert/nanofire/nanofire/query"
)

// Stage is one step of a query pipeline
type Stage = query.Stage

// Direction is the sort direction of OrderBy
type Direction = query.Direction

const (
	Asc  = query.Asc
	Desc = query.Desc
)

// Where filters documents whose field satisfies op against value.
// Supported operators: ==, !=, >, >=, <, <=, in, not-in, array-contains,
// array-contains-any. Documents missing the field never match.
func Where(field, op string, value interface{}) Stage {
	return query.Where(field, op, value)
}

// OrderBy stable-sorts by field, ascending unless Desc is given
func OrderBy(field string, direction ...Direction) Stage {
	return query.OrderBy(field, direction...)
}

// Skip drops the first n documents of the current sequence
func Skip(n int) Stage {
	return query.Skip(n)
}

// Limit keeps the first n documents of the current sequence
func Limit(n int) Stage {
	return query.Limit(n)
}

// Query is an immutable pipeline of stages bound to a collection.
// Building a query does not read anything; GetDocs evaluates it.
type Query struct {
	ref    *CollectionRef
	stages []query.Stage
}

// NewQuery binds stages to ref. Stages run in the order given.
func NewQuery(ref *CollectionRef, stages ...Stage) *Query {
	return &Query{ref: ref, stages: append([]query.Stage(nil), stages...)}
}

// Ref returns the collection the query runs against
func (q *Query) Ref() *CollectionRef {
	return q.ref
}

// Stages returns a copy of the pipeline
func (q *Query) Stages() []Stage {
	return append([]query.Stage(nil), q.stages...)
}

// Err reports the first invalid stage without evaluating the query
func (q *Query) Err() error {
	return query.Validate(q.stages)
}

// String renders the pipeline, e.g. "people: where(age > 18) | limit(2)"
func (q *Query) String() string {
	if len(q.stages) == 0 {
		return q.ref.ID()
	}
	return q.ref.ID() + ": " + query.Describe(q.stages)
}

// with returns a new query with s appended
func (q *Query) with(s Stage) *Query {
	stages := make([]query.Stage, len(q.stages), len(q.stages)+1)
	copy(stages, q.stages)
	return &Query{ref: q.ref, stages: append(stages, s)}
}

// Where returns a new query with a filter stage appended
func (q *Query) Where(field, op string, value interface{}) *Query {
	return q.with(Where(field, op, value))
}

// OrderBy returns a new query with an order stage appended
func (q *Query) OrderBy(field string, direction ...Direction) *Query {
	return q.with(OrderBy(field, direction...))
}

// Skip returns a new query with a skip stage appended
func (q *Query) Skip(n int) *Query {
	return q.with(Skip(n))
}

// Limit returns a new query with a limit stage appended
func (q *Query) Limit(n int) *Query {
	return q.with(Limit(n))
}
