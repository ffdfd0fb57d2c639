package testutil

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/nanofire/nanofire"
)

// AssertIDs fails the test unless docs carry exactly the wanted ids in order
func AssertIDs(t testing.TB, docs []nanofire.Document, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	if diff := cmp.Diff(want, IDs(docs)); diff != "" {
		t.Errorf("document ids mismatch (-want +got):\n%s", diff)
	}
}

// AssertDocument fails the test unless got equals want field by field
func AssertDocument(t testing.TB, want, got nanofire.Document) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

// AssertExists fails the test unless the snapshot of ref reports exists
func AssertExists(t testing.TB, ref *nanofire.DocumentRef, exists bool) {
	t.Helper()
	got, err := nanofire.GetDoc(ref).Exists(context.Background())
	if err != nil {
		t.Fatalf("failed to read %s: %v", ref.Path(), err)
	}
	if got != exists {
		t.Errorf("expected %s exists=%v, got %v", ref.Path(), exists, got)
	}
}

// MustData materializes a query snapshot or fails the test
func MustData(t testing.TB, snap *nanofire.QuerySnapshot) []nanofire.Document {
	t.Helper()
	docs, err := snap.Data(context.Background())
	if err != nil {
		t.Fatalf("query %s failed: %v", snap.Query(), err)
	}
	return docs
}
