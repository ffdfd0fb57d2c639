package testutil

import (
	"testing"

	"github.com/arthur-debert/nanofire/nanofire"
)

func TestLoadUniverse(t *testing.T) {
	u := LoadUniverse(t)

	if got := len(u.ByPath); got != 6 {
		t.Errorf("expected 6 seeded documents, got %d", got)
	}
	AssertIDs(t, MustData(t, nanofire.GetDocs(u.People)), u.Ordered["people"]...)
	AssertIDs(t, MustData(t, nanofire.GetDocs(u.Cities)), "lis", "opo")

	mike := u.ByPath["people/mike-big"]
	if mike["surname"] != "Big" || mike["age"] != int64(39) {
		t.Errorf("unexpected seeded document %v", mike)
	}

	raw, ok := u.Memory.Raw("meta")
	want := `["cities/lis","cities/opo","people/mike-small","people/mike-big","people/john","people/pfteven"]`
	if !ok || raw != want {
		t.Errorf("unexpected index %s", raw)
	}
}

func TestSequentialIDs(t *testing.T) {
	gen := SequentialIDs("n")
	for _, want := range []string{"n-1", "n-2", "n-3"} {
		if got := gen.NewID(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}
