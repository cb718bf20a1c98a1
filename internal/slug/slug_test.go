package slug

import (
	"slices"
	"testing"
)

func TestAnchor_Basic(t *testing.T) {
	cases := []struct {
		heading string
		want    string
	}{
		{"Section One", "section-one"},
		{"What's new?", "whats-new"},
		{"API (v2): Overview", "api-v2-overview"},
		{"a/b.c", "abc"},
		{"100%20 sure", "100-sure"},
		{"Straße", "strasse"},
		{"Install `doclinks`", "install-doclinks"},
		{"Em — dash", "em--dash"},
		{"中文【标题】", "中文标题"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Anchor(c.heading, nil); got != c.want {
			t.Errorf("Anchor(%q) = %q, want %q", c.heading, got, c.want)
		}
	}
}

func TestAnchor_Collision(t *testing.T) {
	prev := []string{"intro", "intro-1"}
	if got := Anchor("Intro", prev); got != "intro-2" {
		t.Errorf("Anchor = %q, want %q", got, "intro-2")
	}
	if got := Anchor("Intro", []string{"intro"}); got != "intro-1" {
		t.Errorf("Anchor = %q, want %q", got, "intro-1")
	}
}

func TestAnchors_UniqueAndDeterministic(t *testing.T) {
	headings := []string{"Usage", "Usage", "Usage-1", "Usage", "Notes"}
	first := Anchors(headings)
	want := []string{"usage", "usage-1", "usage-1-1", "usage-2", "notes"}
	if !slices.Equal(first, want) {
		t.Fatalf("anchors = %v, want %v", first, want)
	}
	if second := Anchors(headings); !slices.Equal(first, second) {
		t.Errorf("second run = %v, want %v", second, first)
	}
	seen := make(map[string]struct{})
	for _, a := range first {
		if _, dup := seen[a]; dup {
			t.Errorf("duplicate anchor %q", a)
		}
		seen[a] = struct{}{}
	}
}
