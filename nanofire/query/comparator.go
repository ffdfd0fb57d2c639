package query

import (
	"fmt"

	"github.com/arthur-debert/nanofire/types"
)

// Comparator is the closed set of filter operators
type Comparator string

const (
	Equal            Comparator = "=="
	NotEqual         Comparator = "!="
	Greater          Comparator = ">"
	GreaterOrEqual   Comparator = ">="
	Less             Comparator = "<"
	LessOrEqual      Comparator = "<="
	In               Comparator = "in"
	NotIn            Comparator = "not-in"
	ArrayContains    Comparator = "array-contains"
	ArrayContainsAny Comparator = "array-contains-any"
)

var comparators = map[Comparator]bool{
	Equal:            true,
	NotEqual:         true,
	Greater:          true,
	GreaterOrEqual:   true,
	Less:             true,
	LessOrEqual:      true,
	In:               true,
	NotIn:            true,
	ArrayContains:    true,
	ArrayContainsAny: true,
}

// ParseComparator converts an operator string into a Comparator
func ParseComparator(op string) (Comparator, error) {
	c := Comparator(op)
	if !comparators[c] {
		return "", fmt.Errorf("%w: invalid comparator %q", types.ErrInvalidArgument, op)
	}
	return c, nil
}

// takesList reports whether the operand must be a list
func (c Comparator) takesList() bool {
	switch c {
	case In, NotIn, ArrayContainsAny:
		return true
	}
	return false
}

// Match evaluates the comparator for one document field.
// present is false when the document does not carry the field.
//
// A missing field never matches, including for != and not-in.
func (c Comparator) Match(actual interface{}, present bool, operand interface{}) bool {
	if !present {
		return false
	}

	switch c {
	case Equal:
		return equalValues(actual, operand)
	case NotEqual:
		return !equalValues(actual, operand)
	case Greater:
		cmp, ok := orderValues(actual, operand)
		return ok && cmp > 0
	case GreaterOrEqual:
		cmp, ok := orderValues(actual, operand)
		return ok && cmp >= 0
	case Less:
		cmp, ok := orderValues(actual, operand)
		return ok && cmp < 0
	case LessOrEqual:
		cmp, ok := orderValues(actual, operand)
		return ok && cmp <= 0
	case In:
		return containsValue(asList(operand), actual)
	case NotIn:
		return !containsValue(asList(operand), actual)
	case ArrayContains:
		field, ok := toList(actual)
		if !ok {
			return false
		}
		for _, want := range asList(operand) {
			if !containsValue(field, want) {
				return false
			}
		}
		return true
	case ArrayContainsAny:
		field, ok := toList(actual)
		if !ok {
			return false
		}
		for _, want := range asList(operand) {
			if containsValue(field, want) {
				return true
			}
		}
		return false
	}
	return false
}
