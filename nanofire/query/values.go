package query

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// toNumber reports the numeric value of v. Every Go numeric kind is
// accepted so caller-supplied operands compare with decoded document values.
func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// toInt64 reports v as an int64 when it is an integer kind that fits.
// uint and uint64 values above math.MaxInt64 are reported by bigUnsigned.
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), true
		}
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	}
	return 0, false
}

func bigUnsigned(v interface{}) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		if uint64(n) > math.MaxInt64 {
			return uint64(n), true
		}
	case uint64:
		if n > math.MaxInt64 {
			return n, true
		}
	}
	return 0, false
}

// compareIntegers compares two integer values exactly. ok is false unless
// both are integer kinds.
func compareIntegers(a, b interface{}) (cmp int, ok bool) {
	ai, aSmall := toInt64(a)
	bi, bSmall := toInt64(b)
	au, aBig := bigUnsigned(a)
	bu, bBig := bigUnsigned(b)
	if !(aSmall || aBig) || !(bSmall || bBig) {
		return 0, false
	}
	switch {
	case aBig && bBig:
		switch {
		case au < bu:
			return -1, true
		case au > bu:
			return 1, true
		}
		return 0, true
	case aBig:
		return 1, true
	case bBig:
		return -1, true
	case ai < bi:
		return -1, true
	case ai > bi:
		return 1, true
	}
	return 0, true
}

// compareNumbers compares two numbers, exactly for integer pairs and as
// float64 otherwise. ok is false unless both are numbers.
func compareNumbers(a, b interface{}) (cmp int, ok bool) {
	if c, ok := compareIntegers(a, b); ok {
		return c, true
	}
	an, aok := toNumber(a)
	bn, bok := toNumber(b)
	if !aok || !bok {
		return 0, false
	}
	return compareFloats(an, bn), true
}

// toList converts any slice or array into []interface{}
func toList(v interface{}) ([]interface{}, bool) {
	if list, ok := v.([]interface{}); ok {
		return list, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asList treats a scalar operand as a single-element list
func asList(v interface{}) []interface{} {
	if list, ok := toList(v); ok {
		return list
	}
	return []interface{}{v}
}

// equalValues compares numbers by value and everything else structurally
func equalValues(a, b interface{}) bool {
	if c, ok := compareNumbers(a, b); ok {
		return c == 0
	}
	_, aok := toNumber(a)
	_, bok := toNumber(b)
	if aok != bok {
		return false
	}

	al, aIsList := toList(a)
	bl, bIsList := toList(b)
	if aIsList && bIsList {
		if len(al) != len(bl) {
			return false
		}
		for i := range al {
			if !equalValues(al[i], bl[i]) {
				return false
			}
		}
		return true
	}
	if aIsList != bIsList {
		return false
	}

	am, aIsMap := toMap(a)
	bm, bIsMap := toMap(b)
	if aIsMap && bIsMap {
		if len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !equalValues(av, bv) {
				return false
			}
		}
		return true
	}
	if aIsMap != bIsMap {
		return false
	}

	return reflect.DeepEqual(a, b)
}

func toMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, true
	}
	return nil, false
}

// orderValues compares two values for the range comparators.
// Numbers compare numerically and strings lexicographically; any other
// pairing is not ordered and reports ok=false.
func orderValues(a, b interface{}) (cmp int, ok bool) {
	if c, ok := compareNumbers(a, b); ok {
		return c, true
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// sortCompare orders values for orderBy. Missing values sort first,
// numbers compare by value and everything else by its string form.
func sortCompare(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	// Fractional numbers also compare numerically rather than as text
	if c, ok := compareNumbers(a, b); ok {
		return c
	}
	return strings.Compare(stringForm(a), stringForm(b))
}

func stringForm(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func containsValue(list []interface{}, v interface{}) bool {
	for _, item := range list {
		if equalValues(item, v) {
			return true
		}
	}
	return false
}
