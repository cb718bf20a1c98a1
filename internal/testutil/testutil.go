// Package testutil provides shared test helpers for setting up docs trees and
// cache databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/doclinks/internal/index"
	"github.com/starford/doclinks/internal/storage"
)

// TestDB creates a temporary SQLite cache database that is automatically
// cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "doclinks-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDocs creates a temporary docs tree holding files (path to content) and
// returns its root and a storage.Provider for it.
func TestDocs(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root, "")
	if err != nil {
		t.Fatal(err)
	}
	for p, body := range files {
		if err := store.Write(p, []byte(body)); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return root, store
}
