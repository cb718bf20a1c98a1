package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/models"
)

// Entry is the cached extraction result of one file.
type Entry struct {
	Path      string
	Checksum  string
	Topology  models.Topology
	Problems  []apperr.Problem
	UpdatedAt time.Time
}

// Upsert inserts or replaces an entry.
func (db *DB) Upsert(e Entry) error {
	cols, err := encodeColumns(e)
	if err != nil {
		return err
	}

	_, err = db.conn.Exec(`
		INSERT INTO topologies (path, checksum, anchors, links, unresolved, problems, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum   = excluded.checksum,
			anchors    = excluded.anchors,
			links      = excluded.links,
			unresolved = excluded.unresolved,
			problems   = excluded.problems,
			updated_at = excluded.updated_at
	`, e.Path, e.Checksum, cols[0], cols[1], cols[2], cols[3], e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert topology: %w", err)
	}
	return nil
}

func encodeColumns(e Entry) ([4]string, error) {
	var out [4]string
	problems := e.Problems
	if problems == nil {
		problems = []apperr.Problem{}
	}
	values := []any{
		nonNil(e.Topology.Anchors),
		nonNil(e.Topology.Links),
		nonNil(e.Topology.Unresolved),
		problems,
	}
	for i, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			return out, fmt.Errorf("index: encode %s: %w", e.Path, err)
		}
		out[i] = string(b)
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Get returns the cached entry for path, or nil if there is none.
func (db *DB) Get(path string) (*Entry, error) {
	var e Entry
	var anchors, links, unresolved, problems string
	err := db.conn.QueryRow(`
		SELECT path, checksum, anchors, links, unresolved, problems, updated_at
		FROM topologies WHERE path = ?
	`, path).Scan(&e.Path, &e.Checksum, &anchors, &links, &unresolved, &problems, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get %s: %w", path, err)
	}
	for _, col := range []struct {
		raw string
		dst any
	}{
		{anchors, &e.Topology.Anchors},
		{links, &e.Topology.Links},
		{unresolved, &e.Topology.Unresolved},
		{problems, &e.Problems},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
			return nil, fmt.Errorf("index: decode %s: %w", path, err)
		}
	}
	if len(e.Problems) == 0 {
		e.Problems = nil
	}
	return &e, nil
}

// Delete removes an entry.
func (db *DB) Delete(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM topologies WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete %s: %w", path, err)
	}
	return nil
}

// AllChecksums returns path → checksum for every cached file.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM topologies`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
