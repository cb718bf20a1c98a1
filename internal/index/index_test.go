package index

import (
	"io"
	"log/slog"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "doclinks-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM topologies`).Scan(&count); err != nil {
		t.Fatalf("topologies table missing: %v", err)
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := testDB(t)
	in := Entry{
		Path:     "a.md",
		Checksum: "abc123",
		Topology: models.Topology{
			Anchors:    []string{"intro", "usage"},
			Links:      []string{"/b#x", "https://example.com"},
			Unresolved: []string{"nope"},
		},
		Problems:  []apperr.Problem{{Kind: apperr.KindUndefinedLabel, File: "a.md", Subject: "nope"}},
		UpdatedAt: time.Now(),
	}
	if err := db.Upsert(in); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := db.Get("a.md")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected entry")
	}
	if got.Checksum != "abc123" {
		t.Errorf("checksum = %q, want %q", got.Checksum, "abc123")
	}
	if !slices.Equal(got.Topology.Anchors, in.Topology.Anchors) ||
		!slices.Equal(got.Topology.Links, in.Topology.Links) ||
		!slices.Equal(got.Topology.Unresolved, in.Topology.Unresolved) {
		t.Errorf("topology = %+v, want %+v", got.Topology, in.Topology)
	}
	if len(got.Problems) != 1 || got.Problems[0] != in.Problems[0] {
		t.Errorf("problems = %+v", got.Problems)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	got, err := db.Get("nonexistent.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil entry, got %+v", got)
	}
}

func TestUpsertReplacesAndDelete(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.Upsert(Entry{Path: "up.md", Checksum: "1", UpdatedAt: now})
	_ = db.Upsert(Entry{Path: "up.md", Checksum: "2", UpdatedAt: now})

	sums, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(sums) != 1 || sums["up.md"] != "2" {
		t.Errorf("checksums = %v", sums)
	}

	if err := db.Delete("up.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := db.Get("up.md"); got != nil {
		t.Error("deleted entry still cached")
	}
}

func TestCache_ReusesUnchangedFiles(t *testing.T) {
	db := testDB(t)
	c := NewCache(db, quietLogger())
	doc := models.Document{Path: "a.md", Content: []byte("# Title\n[x](/b)\n")}

	top, _ := c.Extract(doc)
	if !slices.Equal(top.Anchors, []string{"title"}) {
		t.Fatalf("anchors = %v", top.Anchors)
	}

	// Tamper with the cached row: a hit must return the stored topology.
	entry, _ := db.Get("a.md")
	entry.Topology.Anchors = []string{"from-cache"}
	if err := db.Upsert(*entry); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	top, _ = c.Extract(doc)
	if !slices.Equal(top.Anchors, []string{"from-cache"}) {
		t.Errorf("anchors = %v, want cached value", top.Anchors)
	}

	// Changed content invalidates the entry.
	doc.Content = []byte("# Other\n")
	top, _ = c.Extract(doc)
	if !slices.Equal(top.Anchors, []string{"other"}) {
		t.Errorf("anchors = %v, want re-extracted value", top.Anchors)
	}
}

func TestCache_KeepsProblems(t *testing.T) {
	db := testDB(t)
	c := NewCache(db, quietLogger())
	doc := models.Document{Path: "a.md", Content: []byte("[x][missing]\n")}

	_, first := c.Extract(doc)
	_, second := c.Extract(doc)
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Errorf("problems first=%v second=%v", first, second)
	}
}

func TestCache_Prune(t *testing.T) {
	db := testDB(t)
	c := NewCache(db, quietLogger())
	c.Extract(models.Document{Path: "keep.md", Content: []byte("# K\n")})
	c.Extract(models.Document{Path: "gone.md", Content: []byte("# G\n")})

	if err := c.Prune([]string{"keep.md"}); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	sums, _ := db.AllChecksums()
	if _, ok := sums["gone.md"]; ok {
		t.Error("stale entry not pruned")
	}
	if _, ok := sums["keep.md"]; !ok {
		t.Error("live entry pruned")
	}
}
