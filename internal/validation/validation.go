// Package validation checks names and values before they reach storage.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/arthur-debert/nanofire/types"
)

// reservedNames cannot be used as collection names because they would
// collide with keys the store manages itself
var reservedNames = []string{"meta"}

// CollectionName checks that name can form the "<name>/" key prefix
func CollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", types.ErrInvalidArgument)
	}
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: collection name %q cannot contain '/'", types.ErrInvalidArgument, name)
	}
	if IsReservedName(name) {
		return fmt.Errorf("%w: %q is a reserved name", types.ErrInvalidArgument, name)
	}
	return nil
}

// DocumentID checks that id can be used as the key suffix
func DocumentID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: document id cannot be empty", types.ErrInvalidArgument)
	}
	if strings.Contains(id, "/") {
		return fmt.Errorf("%w: document id %q cannot contain '/'", types.ErrInvalidArgument, id)
	}
	return nil
}

// IsReservedName checks if a name is reserved by the store
func IsReservedName(name string) bool {
	for _, reserved := range reservedNames {
		if name == reserved {
			return true
		}
	}
	return false
}

// Document ensures every field holds a JSON-compatible value
func Document(doc types.Document) error {
	for field, value := range doc {
		if field == "" {
			return fmt.Errorf("%w: field name cannot be empty", types.ErrInvalidArgument)
		}
		if err := Value(value, field); err != nil {
			return err
		}
	}
	return nil
}

// Value ensures a field value is JSON-compatible: strings, numbers, bools,
// nil, time.Time, and slices or string-keyed maps of those
func Value(value interface{}, field string) error {
	if value == nil {
		return nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := Value(v.Index(i).Interface(), fmt.Sprintf("%s[%d]", field, i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: field '%s' must use string map keys, got %T", types.ErrInvalidArgument, field, value)
		}
		iter := v.MapRange()
		for iter.Next() {
			if err := Value(iter.Value().Interface(), field+"."+iter.Key().String()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Ptr, reflect.Interface:
		// Dereference and check again
		if v.IsNil() {
			return nil
		}
		return Value(v.Elem().Interface(), field)
	case reflect.Struct:
		// Allow time.Time as it's commonly used
		if _, ok := value.(time.Time); ok {
			return nil
		}
		return fmt.Errorf("%w: field '%s' cannot be a struct type, got %T", types.ErrInvalidArgument, field, value)
	default:
		return fmt.Errorf("%w: field '%s' has unsupported type %T", types.ErrInvalidArgument, field, value)
	}
}
