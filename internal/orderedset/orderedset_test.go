package orderedset

import (
	"slices"
	"testing"
)

func TestSet_FirstSeenOrder(t *testing.T) {
	s := New("b.md", "a.md", "b.md", "c.md", "a.md")
	want := []string{"b.md", "a.md", "c.md"}
	if !slices.Equal(s.Items(), want) {
		t.Errorf("items = %v, want %v", s.Items(), want)
	}
	if s.Len() != 3 {
		t.Errorf("len = %d, want 3", s.Len())
	}
}

func TestSet_AddReportsNew(t *testing.T) {
	var s Set[int]
	if !s.Add(1) {
		t.Error("first Add should report true")
	}
	if s.Add(1) {
		t.Error("repeated Add should report false")
	}
	if !s.Contains(1) || s.Contains(2) {
		t.Error("Contains mismatch")
	}
}

func TestSet_ZeroValueContains(t *testing.T) {
	var s Set[string]
	if s.Contains("x") {
		t.Error("empty set should not contain anything")
	}
	if s.Len() != 0 || len(s.Items()) != 0 {
		t.Error("empty set should have no items")
	}
}
