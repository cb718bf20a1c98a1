// Package models defines the domain types for doclinks.
package models

import "time"

// Document is the raw content of one Markdown file, keyed by its
// slash-separated path relative to the docs root.
type Document struct {
	Path    string `json:"path"`
	Content []byte `json:"-"`
}

// FileMetadata is a lightweight representation returned by list operations.
// It comes from the directory entry alone; contents are never read.
type FileMetadata struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Topology is the link topology of a single file.
type Topology struct {
	// Anchors are unique and in document order of their headings.
	Anchors []string `json:"anchors"`
	// Links holds distinct resolved link targets, sorted.
	Links []string `json:"links"`
	// Unresolved holds distinct normalized labels that were referenced but
	// never defined, sorted.
	Unresolved []string `json:"unresolved,omitempty"`
}

// HasAnchor reports whether a is one of the file's anchors.
func (t *Topology) HasAnchor(a string) bool {
	for _, x := range t.Anchors {
		if x == a {
			return true
		}
	}
	return false
}
