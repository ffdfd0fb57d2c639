package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/arthur-debert/nanofire/types"
)

func TestCollectionName(t *testing.T) {
	valid := []string{"people", "cities-2024", "a"}
	for _, name := range valid {
		if err := CollectionName(name); err != nil {
			t.Errorf("expected %q to be valid, got %v", name, err)
		}
	}

	invalid := []string{"", "people/admins", "meta"}
	for _, name := range invalid {
		err := CollectionName(name)
		if !errors.Is(err, types.ErrInvalidArgument) {
			t.Errorf("expected %q to be rejected with ErrInvalidArgument, got %v", name, err)
		}
	}
}

func TestDocumentID(t *testing.T) {
	if err := DocumentID("mike"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, id := range []string{"", "a/b"} {
		if err := DocumentID(id); !errors.Is(err, types.ErrInvalidArgument) {
			t.Errorf("expected %q to be rejected, got %v", id, err)
		}
	}
}

func TestValue(t *testing.T) {
	now := time.Now()
	name := "Mike"

	tests := []struct {
		name    string
		value   interface{}
		wantErr bool
	}{
		{"nil", nil, false},
		{"string", "x", false},
		{"int", 1, false},
		{"float", 1.5, false},
		{"bool", true, false},
		{"time", now, false},
		{"pointer", &name, false},
		{"nil pointer", (*string)(nil), false},
		{"string slice", []string{"a", "b"}, false},
		{"nested map", map[string]interface{}{"a": []interface{}{1, "b"}}, false},
		{"int keyed map", map[int]string{1: "a"}, true},
		{"struct", struct{ A int }{1}, true},
		{"func", func() {}, true},
		{"channel in slice", []interface{}{make(chan int)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Value(tt.value, "field")
			if tt.wantErr && !errors.Is(err, types.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDocument(t *testing.T) {
	if err := Document(types.Document{"name": "Mike", "tags": []string{"a"}}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := Document(types.Document{"": 1}); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("expected empty field name to be rejected, got %v", err)
	}
}
