package query

import (
	"errors"
	"testing"

	"github.com/arthur-debert/nanofire/types"
)

func people() []types.Document {
	return []types.Document{
		{"id": "1", "name": "Mike", "surname": "Small", "age": int64(18), "likes": []interface{}{"potatoes", "hunger"}},
		{"id": "2", "name": "Mike", "surname": "Big", "age": int64(39), "likes": []interface{}{"coffee", "potatoes"}},
		{"id": "3", "name": "John", "age": int64(25), "likes": []interface{}{"dogs"}},
		{"id": "4", "name": "Pfteven"},
	}
}

func ids(docs []types.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID()
	}
	return out
}

func assertIDs(t *testing.T, docs []types.Document, want ...string) {
	t.Helper()
	got := ids(docs)
	if len(got) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, got)
		}
	}
}

func TestWhereComparators(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
		want  []string
	}{
		{"equal string", Where("name", "==", "Mike"), []string{"1", "2"}},
		{"equal across numeric types", Where("age", "==", 18), []string{"1"}},
		{"not equal excludes missing field", Where("age", "!=", 18), []string{"2", "3"}},
		{"greater", Where("age", ">", 18), []string{"2", "3"}},
		{"greater or equal", Where("age", ">=", 25), []string{"2", "3"}},
		{"less", Where("age", "<", 25), []string{"1"}},
		{"less or equal", Where("age", "<=", 25.0), []string{"1", "3"}},
		{"lexicographic", Where("name", ">", "Mike"), []string{"4"}},
		{"mixed types never order", Where("name", ">", 3), []string{}},
		{"in", Where("name", "in", []string{"Mike", "John"}), []string{"1", "2", "3"}},
		{"not-in", Where("name", "not-in", []string{"Mike", "John"}), []string{"4"}},
		{"not-in excludes missing field", Where("age", "not-in", []int{18}), []string{"2", "3"}},
		{"array-contains all given", Where("likes", "array-contains", []string{"potatoes", "hunger"}), []string{"1"}},
		{"array-contains scalar", Where("likes", "array-contains", "potatoes"), []string{"1", "2"}},
		{"array-contains-any", Where("likes", "array-contains-any", []string{"potatoes", "hunger"}), []string{"1", "2"}},
		{"array comparator on non-array field", Where("name", "array-contains-any", []string{"Mike"}), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(people(), []Stage{tt.stage})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestMultipleWheresAreAND(t *testing.T) {
	got, err := Apply(people(), []Stage{
		Where("name", "==", "Mike"),
		Where("age", ">", 18),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, got, "2")
	if got[0]["surname"] != "Big" {
		t.Errorf("expected surname Big, got %v", got[0]["surname"])
	}
}

func TestOrderBy(t *testing.T) {
	docs := []types.Document{
		{"id": "z", "name": "Zynosky", "age": int64(30)},
		{"id": "a", "name": "Abel", "age": int64(40)},
	}

	t.Run("numeric desc", func(t *testing.T) {
		got, err := Apply(docs, []Stage{OrderBy("age", Desc)})
		if err != nil {
			t.Fatal(err)
		}
		assertIDs(t, got, "a", "z")
	})

	t.Run("string asc is the default", func(t *testing.T) {
		got, err := Apply(docs, []Stage{OrderBy("name")})
		if err != nil {
			t.Fatal(err)
		}
		assertIDs(t, got, "a", "z")
	})

	t.Run("string desc", func(t *testing.T) {
		got, err := Apply(docs, []Stage{OrderBy("name", Desc)})
		if err != nil {
			t.Fatal(err)
		}
		assertIDs(t, got, "z", "a")
	})

	t.Run("stable for equal keys", func(t *testing.T) {
		input := []types.Document{
			{"id": "1", "age": int64(30)},
			{"id": "2", "age": int64(20)},
			{"id": "3", "age": int64(30)},
			{"id": "4", "age": int64(20)},
		}
		got, err := Apply(input, []Stage{OrderBy("age")})
		if err != nil {
			t.Fatal(err)
		}
		assertIDs(t, got, "2", "4", "1", "3")
	})

	t.Run("does not reorder the input", func(t *testing.T) {
		input := []types.Document{{"id": "b", "n": int64(2)}, {"id": "a", "n": int64(1)}}
		if _, err := Apply(input, []Stage{OrderBy("n")}); err != nil {
			t.Fatal(err)
		}
		assertIDs(t, input, "b", "a")
	})
}

func TestSkipAndLimit(t *testing.T) {
	docs := []types.Document{
		{"id": "abel"}, {"id": "zynosky"}, {"id": "pepe"},
	}

	tests := []struct {
		name   string
		stages []Stage
		want   []string
	}{
		{"limit", []Stage{Limit(2)}, []string{"abel", "zynosky"}},
		{"skip", []Stage{Skip(1)}, []string{"zynosky", "pepe"}},
		{"skip then limit paginates", []Stage{Skip(1), Limit(1)}, []string{"zynosky"}},
		{"limit then skip windows", []Stage{Limit(2), Skip(1)}, []string{"zynosky"}},
		{"limit larger than input", []Stage{Limit(10)}, []string{"abel", "zynosky", "pepe"}},
		{"skip past the end", []Stage{Skip(5)}, []string{}},
		{"limit zero", []Stage{Limit(0)}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(docs, tt.stages)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestStageOrderMatters(t *testing.T) {
	docs := []types.Document{
		{"id": "1", "age": int64(50)},
		{"id": "2", "age": int64(10)},
		{"id": "3", "age": int64(30)},
	}

	sortedThenLimited, err := Apply(docs, []Stage{OrderBy("age"), Limit(2)})
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, sortedThenLimited, "2", "3")

	limitedThenSorted, err := Apply(docs, []Stage{Limit(2), OrderBy("age")})
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, limitedThenSorted, "2", "1")
}

func TestInvalidStages(t *testing.T) {
	tests := []struct {
		name  string
		stage Stage
	}{
		{"unknown comparator", Where("name", "~=", "Mike")},
		{"empty filter field", Where("", "==", "Mike")},
		{"in needs a list", Where("name", "in", "Mike")},
		{"unknown direction", OrderBy("name", Direction("sideways"))},
		{"negative skip", Skip(-1)},
		{"negative limit", Limit(-3)},
		{"unknown kind", Stage{Kind: "group"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := people()
			got, err := Apply(input, []Stage{Where("name", "==", "Mike"), tt.stage})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, types.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			var stageErr *StageError
			if !errors.As(err, &stageErr) {
				t.Fatalf("expected *StageError, got %T", err)
			}
			if stageErr.Index != 1 {
				t.Errorf("expected failing stage index 1, got %d", stageErr.Index)
			}
			if got != nil {
				t.Errorf("expected no partial result, got %v", ids(got))
			}
		})
	}
}

func TestParseComparator(t *testing.T) {
	for _, op := range []string{"==", "!=", ">", ">=", "<", "<=", "in", "not-in", "array-contains", "array-contains-any"} {
		c, err := ParseComparator(op)
		if err != nil {
			t.Errorf("ParseComparator(%q) failed: %v", op, err)
		}
		if string(c) != op {
			t.Errorf("ParseComparator(%q) returned %q", op, c)
		}
	}

	if _, err := ParseComparator("~="); !errors.Is(err, types.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	got := Describe([]Stage{
		Where("age", ">", 18),
		OrderBy("name", Desc),
		Skip(1),
		Limit(2),
	})
	want := "where(age > 18) | orderBy(name desc) | skip(1) | limit(2)"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEqualValuesNested(t *testing.T) {
	docs := []types.Document{
		{"id": "1", "address": map[string]interface{}{"city": "Lisbon", "zip": int64(1000)}},
		{"id": "2", "address": map[string]interface{}{"city": "Porto"}},
	}
	got, err := Apply(docs, []Stage{
		Where("address", "==", map[string]interface{}{"city": "Lisbon", "zip": 1000}),
	})
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, got, "1")
}

func TestLargeIntegersCompareExactly(t *testing.T) {
	docs := []types.Document{
		{"id": "a", "v": int64(9007199254740993)},
		{"id": "b", "v": int64(9007199254740992)},
		{"id": "c", "v": uint64(18446744073709551615)},
	}
	tests := []struct {
		name   string
		stages []Stage
		want   []string
	}{
		{"equal", []Stage{Where("v", "==", int64(9007199254740992))}, []string{"b"}},
		{"not equal", []Stage{Where("v", "!=", int64(9007199254740992))}, []string{"a", "c"}},
		{"greater", []Stage{Where("v", ">", int64(9007199254740992))}, []string{"a", "c"}},
		{"less than big unsigned", []Stage{Where("v", "<", uint64(18446744073709551615))}, []string{"a", "b"}},
		{"in", []Stage{Where("v", "in", []int64{9007199254740993})}, []string{"a"}},
		{"order ascending", []Stage{OrderBy("v")}, []string{"b", "a", "c"}},
		{"order descending", []Stage{OrderBy("v", Desc)}, []string{"c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(docs, tt.stages)
			if err != nil {
				t.Fatal(err)
			}
			assertIDs(t, got, tt.want...)
		})
	}
}
