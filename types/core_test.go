package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDocumentAccessors(t *testing.T) {
	doc := Document{IDField: "mike", "age": 39, "nickname": nil}

	if doc.ID() != "mike" {
		t.Errorf("unexpected id %q", doc.ID())
	}
	if v, ok := doc.Get("nickname"); !ok || v != nil {
		t.Errorf("a nil field is still present, got %v %v", v, ok)
	}
	if _, ok := doc.Get("surname"); ok {
		t.Error("missing field must not be present")
	}

	var absent Document
	if absent.ID() != "" {
		t.Error("nil document has no id")
	}
	if _, ok := absent.Get("age"); ok {
		t.Error("nil document has no fields")
	}
}

func TestDocumentWithIDAndMerge(t *testing.T) {
	doc := Document{IDField: "wrong", "name": "Mike", "inner": map[string]interface{}{"a": 1}}

	withID := doc.WithID("mike")
	if withID.ID() != "mike" || doc.ID() != "wrong" {
		t.Errorf("WithID must copy: got %q, original %q", withID.ID(), doc.ID())
	}

	merged := doc.Merge(Document{"age": 39, "inner": map[string]interface{}{"b": 2}})
	want := Document{IDField: "wrong", "name": "Mike", "age": 39, "inner": map[string]interface{}{"b": 2}}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
	if _, ok := doc["age"]; ok {
		t.Error("merge must not modify the receiver")
	}
}
