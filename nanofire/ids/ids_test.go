package ids

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator(t *testing.T) {
	gen := UUIDGenerator{}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.NewID()

		parsed, err := uuid.Parse(id)
		if err != nil {
			t.Fatalf("generated id %q is not a UUID: %v", id, err)
		}
		if parsed.Version() != 4 {
			t.Errorf("expected version 4 UUID, got version %d", parsed.Version())
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}

func TestGeneratorFunc(t *testing.T) {
	n := 0
	gen := GeneratorFunc(func() string {
		n++
		return fmt.Sprintf("doc-%d", n)
	})

	if got := gen.NewID(); got != "doc-1" {
		t.Errorf("expected doc-1, got %s", got)
	}
	if got := gen.NewID(); got != "doc-2" {
		t.Errorf("expected doc-2, got %s", got)
	}
}
