// Package apperr defines sentinel errors and the link problem taxonomy.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidPath = errors.New("invalid path")
	ErrLinksBroken = errors.New("broken links found")
)

// Kind classifies a Problem.
type Kind int

const (
	KindDuplicateLabel Kind = iota + 1
	KindUndefinedLabel
	KindMalformedLink
	KindMissingPath
	KindMissingAnchor
)

var kindNames = map[Kind]string{
	KindDuplicateLabel: "duplicate_label",
	KindUndefinedLabel: "undefined_label",
	KindMalformedLink:  "malformed_link",
	KindMissingPath:    "missing_path",
	KindMissingAnchor:  "missing_anchor",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("apperr: unknown problem kind %q", b)
}

// Problem is a single non-fatal finding in one file.
//
// Subject is the label, link, path or anchor the problem is about. Target is
// only set for KindMissingAnchor and names the file that lacks the anchor.
type Problem struct {
	Kind    Kind   `json:"kind"`
	File    string `json:"file"`
	Subject string `json:"subject"`
	Target  string `json:"target,omitempty"`
}

func (p Problem) Error() string {
	var desc string
	switch p.Kind {
	case KindDuplicateLabel:
		desc = fmt.Sprintf("Label '%s' appears twice", p.Subject)
	case KindUndefinedLabel:
		desc = fmt.Sprintf("Label '%s' is undefined", p.Subject)
	case KindMalformedLink:
		desc = fmt.Sprintf("Malformed link '%s'", p.Subject)
	case KindMissingPath:
		desc = fmt.Sprintf("Path '%s' does not exist", p.Subject)
	case KindMissingAnchor:
		desc = fmt.Sprintf("Anchor '%s' in file '%s' does not exist", p.Subject, p.Target)
	default:
		desc = fmt.Sprintf("%s '%s'", p.Kind, p.Subject)
	}
	return fmt.Sprintf("In '%s': %s", p.File, desc)
}

// Problems is an ordered list of problems usable as a single error.
type Problems []Problem

func (ps Problems) Error() string {
	lines := make([]string, len(ps))
	for i, p := range ps {
		lines[i] = p.Error()
	}
	return strings.Join(lines, "\n")
}

// Strings renders every problem as its message.
func (ps Problems) Strings() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Error()
	}
	return out
}
