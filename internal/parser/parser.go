// Package parser extracts headings, label definitions and links from Markdown
// content to build a file's link topology.
package parser

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/models"
	"github.com/starford/doclinks/internal/slug"
)

var (
	headingRe  = regexp.MustCompile(`(?m)^#+(.+)`)
	labelDefRe = regexp.MustCompile(`(?m)^\[(.+?)\]: (.+)`)
)

// Extract builds the topology of one file. file is only used to attribute
// problems. Problems are returned in the order they were found.
func Extract(content []byte, file string) (*models.Topology, []apperr.Problem) {
	text := string(content)
	var problems []apperr.Problem

	anchors := slug.Anchors(extractHeadings(text))

	labels, dups := extractLabels(text)
	for _, l := range dups {
		problems = append(problems, apperr.Problem{Kind: apperr.KindDuplicateLabel, File: file, Subject: l})
	}

	links := make(map[string]struct{})
	undefined := make(map[string]struct{})
	for _, ref := range scanLinks(text) {
		if ref.direct {
			links[ref.value] = struct{}{}
			continue
		}
		label := NormalizeLabel(ref.value)
		target, ok := labels[label]
		if !ok {
			if _, seen := undefined[label]; !seen {
				undefined[label] = struct{}{}
				problems = append(problems, apperr.Problem{Kind: apperr.KindUndefinedLabel, File: file, Subject: label})
			}
			continue
		}
		links[target] = struct{}{}
	}

	return &models.Topology{
		Anchors:    anchors,
		Links:      sortedKeys(links),
		Unresolved: sortedKeys(undefined),
	}, problems
}

// NormalizeLabel case-folds a label, trims it and collapses inner whitespace
// runs to a single space.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(cases.Fold().String(label)), " ")
}

// extractHeadings returns the trimmed text of every line starting with '#'.
func extractHeadings(text string) []string {
	matches := headingRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// extractLabels maps normalized labels to their targets. A label defined more
// than once keeps its last target and is reported once per extra definition.
func extractLabels(text string) (map[string]string, []string) {
	labels := make(map[string]string)
	var dups []string
	for _, m := range labelDefRe.FindAllStringSubmatch(text, -1) {
		label := NormalizeLabel(m[1])
		if _, ok := labels[label]; ok {
			dups = append(dups, label)
		}
		labels[label] = m[2]
	}
	return labels, dups
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
