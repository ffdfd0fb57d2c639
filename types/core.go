package types

import "errors"

// IDField is the reserved field that carries a document's identifier
// within its collection. It is always present on persisted documents.
const IDField = "id"

// Sentinel errors shared by the query engine, the storage layer and the
// public API. Match them with errors.Is.
var (
	// ErrInvalidArgument is returned for malformed stages, names and values
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when an operation requires a target that does not exist.
	// Plain lookups report absence as a nil Document instead.
	ErrNotFound = errors.New("not found")
)

// Document is a JSON-compatible record: field names mapped to strings,
// numbers, booleans, nil, slices and nested maps.
//
// A nil Document means "absent".
type Document map[string]interface{}

// ID returns the document identifier, or "" when the field is missing
func (d Document) ID() string {
	if d == nil {
		return ""
	}
	id, _ := d[IDField].(string)
	return id
}

// Get returns the value of a top-level field and whether it is present
func (d Document) Get(field string) (interface{}, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d[field]
	return v, ok
}

// WithID returns a shallow copy of d with the id field forced to id
func (d Document) WithID(id string) Document {
	out := make(Document, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	out[IDField] = id
	return out
}

// Merge returns a new document with the fields of patch laid over d.
// The merge is shallow: nested maps in patch replace those in d.
func (d Document) Merge(patch Document) Document {
	out := make(Document, len(d)+len(patch))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
