package lexicon

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScan_WordBoundaries(t *testing.T) {
	m := Flat([]string{"urgent", "bug", "new"})

	tests := []struct {
		name string
		in   string
		want []int
	}{
		{"plain", "a bug here", []int{1}},
		{"inside longer word", "debugging newsletter", nil},
		{"spanish inflection does not match english stem", "muy urgente", nil},
		{"punctuation is a boundary", "urgent! (bug)", []int{0, 1}},
		{"apostrophe is a boundary", "it's new", []int{2}},
		{"repeated counted once", "bug bug bug", []int{1}},
		{"edges", "new", []int{2}},
		{"empty", "", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Present(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Present(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestScan_LongestAtSameStart(t *testing.T) {
	m := New([][]string{
		{"funciona"},
		{"no funciona", "does not work"},
	})
	hits := m.Scan("ya no funciona nada")
	if len(hits) != 1 || hits[0].Entry != 1 || hits[0].Form != "no funciona" {
		t.Fatalf("hits = %+v", hits)
	}
	if got := m.Present("funciona bien"); len(got) != 1 || got[0] != 0 {
		t.Fatalf("Present = %v", got)
	}
}

func TestScan_NonWordEdges(t *testing.T) {
	m := Flat([]string{"bit.ly/"})
	if !m.Any("visit bit.ly/abc now") {
		t.Fatalf("expected hit")
	}
	if !m.Any("(bit.ly/x)") {
		t.Fatalf("expected hit inside parens")
	}
	if m.Any("orbit.ly/x") {
		t.Fatalf("word char before form must block the hit")
	}
}

func TestScan_Hits(t *testing.T) {
	m := New([][]string{{"error", "errores"}, {"crash"}})
	got := m.Scan("error then crash then errores")
	want := []Hit{
		{Entry: 0, Form: "error", Start: 0, End: 5},
		{Entry: 1, Form: "crash", Start: 11, End: 16},
		{Entry: 0, Form: "errores", Start: 22, End: 29},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Scan mismatch (-want +got):\n%s", diff)
	}
}

func TestAny_MultibyteNeighbours(t *testing.T) {
	m := Flat([]string{"falla"})
	if m.Any("ñfalla") {
		t.Fatalf("non-ascii letter is a word char")
	}
	if !m.Any("¡falla!") {
		t.Fatalf("inverted exclamation is a boundary")
	}
}

func TestEmptyMatcher(t *testing.T) {
	m := New(nil)
	if m.Len() != 0 || m.Any("anything") || m.Scan("anything") != nil {
		t.Fatalf("empty matcher should never hit")
	}
}
