package query

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/nanofire/types"
)

// StageError reports which stage of a pipeline is invalid
type StageError struct {
	Index int
	Stage Stage
	Err   error
}

// Error implements the error interface
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d %s: %v", e.Index, e.Stage, e.Err)
}

// Unwrap allows error unwrapping
func (e *StageError) Unwrap() error {
	return e.Err
}

// Validate checks every stage and returns a *StageError for the first
// invalid one.
func Validate(stages []Stage) error {
	for i, s := range stages {
		if err := s.Validate(); err != nil {
			return &StageError{Index: i, Stage: s, Err: err}
		}
	}
	return nil
}

// Apply folds stages over docs left to right and returns the result.
//
// The whole pipeline is validated before any stage runs, so an invalid
// stage never yields a partially filtered result. The input slice is not
// modified.
func Apply(docs []types.Document, stages []Stage) ([]types.Document, error) {
	if err := Validate(stages); err != nil {
		return nil, err
	}

	result := make([]types.Document, len(docs))
	copy(result, docs)

	for _, s := range stages {
		result = s.apply(result)
	}
	return result, nil
}

// apply runs a validated stage
func (s Stage) apply(docs []types.Document) []types.Document {
	switch s.Kind {
	case KindFilter:
		return filter(docs, s.Field, s.Op, s.Value)
	case KindOrder:
		return order(docs, s.Field, s.Direction)
	case KindSkip:
		if s.N >= len(docs) {
			return []types.Document{}
		}
		return docs[s.N:]
	case KindLimit:
		if s.N < len(docs) {
			return docs[:s.N]
		}
		return docs
	}
	return docs
}

func filter(docs []types.Document, field string, op Comparator, value interface{}) []types.Document {
	out := make([]types.Document, 0, len(docs))
	for _, doc := range docs {
		actual, present := doc.Get(field)
		if op.Match(actual, present, value) {
			out = append(out, doc)
		}
	}
	return out
}

func order(docs []types.Document, field string, dir Direction) []types.Document {
	out := make([]types.Document, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].Get(field)
		b, _ := out[j].Get(field)
		cmp := sortCompare(a, b)
		if dir == Desc {
			cmp = -cmp
		}
		return cmp < 0
	})
	return out
}
