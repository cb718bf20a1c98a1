// Package storage defines the docs file-system abstraction.
package storage

import "github.com/starford/doclinks/internal/models"

// Provider is the interface for docs file operations.
type Provider interface {
	// List returns metadata for every document under dir (relative to the docs root).
	List(dir string) ([]models.FileMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the docs root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the docs root).
	Write(path string, content []byte) error
	// Root returns the absolute docs root.
	Root() string
	// Extension returns the document extension, including the leading dot.
	Extension() string
}
