// Package slug turns Markdown headings into the anchor slugs generated by
// GitHub-style renderers.
package slug

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

var percentRe = regexp.MustCompile(`%[0-9a-f]{2}`)

// stripped holds every rune removed from a slug: ASCII punctuation followed
// by the full-width and CJK marks.
var stripped = runeSet("/?!:[]`.,()*\"';{}+=<>~$|#@&–—" +
	"。？！，、；：“”【】（）〔〕［］﹃﹄‘’﹁﹂…－～《》〈〉「」")

func runeSet(s string) map[rune]struct{} {
	m := make(map[rune]struct{}, len(s))
	for _, r := range s {
		m[r] = struct{}{}
	}
	return m
}

// Anchor returns the slug for heading, made unique against previous by
// appending the first free -N suffix.
func Anchor(heading string, previous []string) string {
	s := cases.Fold().String(heading)
	s = strings.ReplaceAll(s, " ", "-")
	s = percentRe.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if _, ok := stripped[r]; ok {
			return -1
		}
		return r
	}, s)

	if !slices.Contains(previous, s) {
		return s
	}
	for n := 1; ; n++ {
		candidate := s + "-" + strconv.Itoa(n)
		if !slices.Contains(previous, candidate) {
			return candidate
		}
	}
}

// Anchors slugs a document-ordered list of headings, checking each one for
// collisions against the slugs generated before it.
func Anchors(headings []string) []string {
	out := make([]string, 0, len(headings))
	for _, h := range headings {
		out = append(out, Anchor(h, out))
	}
	return out
}
