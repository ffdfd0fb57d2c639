// Package testutil provides fixtures and assertion helpers shared by the
// nanofire test suites.
package testutil

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/arthur-debert/nanofire/nanofire"
	"github.com/arthur-debert/nanofire/nanofire/ids"
	"github.com/arthur-debert/nanofire/nanofire/storage"
)

//go:embed testdata/people.json
var peopleFixture []byte

// Universe gives typed access to the seeded collections
type Universe struct {
	DB      *nanofire.DB
	Memory  *storage.Memory
	People  *nanofire.CollectionRef
	Cities  *nanofire.CollectionRef
	ByPath  map[string]nanofire.Document // "<collection>/<id>" -> seeded document
	Ordered map[string][]string          // collection -> ids in insertion order
}

type fixtureData struct {
	Collections map[string][]map[string]interface{} `json:"collections"`
}

// NewDB creates a DB over a fresh in-memory adapter with sequential ids
// ("doc-1", "doc-2", ...) so generated references are predictable.
func NewDB(t testing.TB, opts ...nanofire.Option) (*nanofire.DB, *storage.Memory) {
	t.Helper()

	mem := storage.NewMemory()
	opts = append([]nanofire.Option{nanofire.WithIDGenerator(SequentialIDs("doc"))}, opts...)
	db := nanofire.New(mem, opts...)
	t.Cleanup(func() { _ = db.Close() })
	return db, mem
}

// SequentialIDs returns a generator producing "<prefix>-1", "<prefix>-2", ...
func SequentialIDs(prefix string) ids.Generator {
	n := 0
	return ids.GeneratorFunc(func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	})
}

// LoadUniverse seeds the people and cities collections from the fixture
func LoadUniverse(t testing.TB, opts ...nanofire.Option) *Universe {
	t.Helper()

	db, mem := NewDB(t, opts...)
	u := &Universe{
		DB:      db,
		Memory:  mem,
		People:  db.Collection("people"),
		Cities:  db.Collection("cities"),
		ByPath:  make(map[string]nanofire.Document),
		Ordered: make(map[string][]string),
	}

	var fixture fixtureData
	if err := json.Unmarshal(peopleFixture, &fixture); err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	// Seed in a stable collection order so the index order is predictable
	names := make([]string, 0, len(fixture.Collections))
	for name := range fixture.Collections {
		names = append(names, name)
	}
	sort.Strings(names)

	ctx := context.Background()
	for _, name := range names {
		for _, raw := range fixture.Collections[name] {
			doc := nanofire.Document(raw)
			ref := db.Doc(name, doc.ID())
			if err := nanofire.SetDoc(ctx, ref, doc); err != nil {
				t.Fatalf("failed to seed %s: %v", ref.Path(), err)
			}
			stored, err := ref.GetDoc(ctx)
			if err != nil {
				t.Fatalf("failed to read back %s: %v", ref.Path(), err)
			}
			u.ByPath[ref.Path()] = stored
			u.Ordered[name] = append(u.Ordered[name], ref.ID())
		}
	}

	return u
}

// IDs returns the id of every document, in order
func IDs(docs []nanofire.Document) []string {
	out := make([]string, len(docs))
	for i, doc := range docs {
		out[i] = doc.ID()
	}
	return out
}

// Field returns the value of field for every document, in order
func Field(docs []nanofire.Document, field string) []interface{} {
	out := make([]interface{}, len(docs))
	for i, doc := range docs {
		out[i] = doc[field]
	}
	return out
}
