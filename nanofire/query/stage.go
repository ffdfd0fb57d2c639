// Package query implements the query pipeline: an ordered list of stage
// descriptors (filter, order, skip, limit) and the evaluator that folds
// them over a document sequence.
//
// Stages are plain values. They can be inspected, compared and serialized,
// and are only interpreted by Apply.
package query

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/nanofire/types"
)

// Kind identifies the transformation a Stage performs
type Kind string

const (
	KindFilter Kind = "filter"
	KindOrder  Kind = "order"
	KindSkip   Kind = "skip"
	KindLimit  Kind = "limit"
)

// Direction is the sort direction of an order stage
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Stage is one step of a query pipeline.
// Only the fields relevant to Kind are set.
type Stage struct {
	Kind      Kind        `json:"kind" yaml:"kind"`
	Field     string      `json:"field,omitempty" yaml:"field,omitempty"`
	Op        Comparator  `json:"op,omitempty" yaml:"op,omitempty"`
	Value     interface{} `json:"value,omitempty" yaml:"value,omitempty"`
	Direction Direction   `json:"direction,omitempty" yaml:"direction,omitempty"`
	N         int         `json:"n,omitempty" yaml:"n,omitempty"`

	// err records a construction failure so it surfaces before evaluation
	err error
}

// Where builds a filter stage keeping documents whose field satisfies op
// against value. An unknown op yields a stage that fails validation.
func Where(field, op string, value interface{}) Stage {
	s := Stage{Kind: KindFilter, Field: field, Op: Comparator(op), Value: value}
	s.err = s.check()
	return s
}

// OrderBy builds a stable sort stage. Direction defaults to Asc.
func OrderBy(field string, direction ...Direction) Stage {
	dir := Asc
	if len(direction) > 0 && direction[0] != "" {
		dir = direction[0]
	}
	s := Stage{Kind: KindOrder, Field: field, Direction: dir}
	s.err = s.check()
	return s
}

// Skip builds a stage dropping the first n documents
func Skip(n int) Stage {
	s := Stage{Kind: KindSkip, N: n}
	s.err = s.check()
	return s
}

// Limit builds a stage keeping the first n documents
func Limit(n int) Stage {
	s := Stage{Kind: KindLimit, N: n}
	s.err = s.check()
	return s
}

// Err returns the error recorded when the stage was constructed
func (s Stage) Err() error {
	return s.err
}

// Validate checks the stage, including stages assembled as literals or
// decoded from JSON rather than built by a constructor.
func (s Stage) Validate() error {
	if s.err != nil {
		return s.err
	}
	return s.check()
}

func (s Stage) check() error {
	switch s.Kind {
	case KindFilter:
		if s.Field == "" {
			return fmt.Errorf("%w: filter field cannot be empty", types.ErrInvalidArgument)
		}
		if _, err := ParseComparator(string(s.Op)); err != nil {
			return err
		}
		if s.Op.takesList() {
			if _, ok := toList(s.Value); !ok {
				return fmt.Errorf("%w: comparator %q needs a list operand, got %T",
					types.ErrInvalidArgument, s.Op, s.Value)
			}
		}
	case KindOrder:
		if s.Field == "" {
			return fmt.Errorf("%w: order field cannot be empty", types.ErrInvalidArgument)
		}
		if s.Direction != Asc && s.Direction != Desc {
			return fmt.Errorf("%w: invalid direction %q", types.ErrInvalidArgument, s.Direction)
		}
	case KindSkip, KindLimit:
		if s.N < 0 {
			return fmt.Errorf("%w: %s cannot be negative (%d)", types.ErrInvalidArgument, s.Kind, s.N)
		}
	default:
		return fmt.Errorf("%w: unknown stage kind %q", types.ErrInvalidArgument, s.Kind)
	}
	return nil
}

// String renders the stage in constructor form, e.g. where(age > 18)
func (s Stage) String() string {
	switch s.Kind {
	case KindFilter:
		return fmt.Sprintf("where(%s %s %v)", s.Field, s.Op, s.Value)
	case KindOrder:
		return fmt.Sprintf("orderBy(%s %s)", s.Field, s.Direction)
	case KindSkip:
		return fmt.Sprintf("skip(%d)", s.N)
	case KindLimit:
		return fmt.Sprintf("limit(%d)", s.N)
	}
	return fmt.Sprintf("%s(?)", s.Kind)
}

// Describe renders a whole pipeline, stages joined by " | "
func Describe(stages []Stage) string {
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}
