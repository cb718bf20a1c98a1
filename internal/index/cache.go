package index

import (
	"log/slog"
	"time"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/checksum"
	"github.com/starford/doclinks/internal/models"
	"github.com/starford/doclinks/internal/parser"
)

// Cache extracts topologies through a TopologyStore, re-parsing only files
// whose checksum changed since they were cached. Cache failures are logged
// and fall back to a fresh extraction; they never fail a check.
type Cache struct {
	store  TopologyStore
	logger *slog.Logger
}

// NewCache creates a Cache on top of store.
func NewCache(store TopologyStore, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, logger: logger}
}

// Extract returns the topology of doc, from the cache when its content is
// unchanged.
func (c *Cache) Extract(doc models.Document) (*models.Topology, []apperr.Problem) {
	cs := checksum.Sum(doc.Content)

	cached, err := c.store.Get(doc.Path)
	if err != nil {
		c.logger.Warn("cache: get failed", slog.String("path", doc.Path), slog.String("error", err.Error()))
	} else if cached != nil && cached.Checksum == cs {
		c.logger.Debug("cache: hit", slog.String("path", doc.Path))
		top := cached.Topology
		return &top, cached.Problems
	}

	top, problems := parser.Extract(doc.Content, doc.Path)
	entry := Entry{
		Path:      doc.Path,
		Checksum:  cs,
		Topology:  *top,
		Problems:  problems,
		UpdatedAt: time.Now(),
	}
	if err := c.store.Upsert(entry); err != nil {
		c.logger.Warn("cache: upsert failed", slog.String("path", doc.Path), slog.String("error", err.Error()))
	} else {
		c.logger.Debug("cache: stored", slog.String("path", doc.Path))
	}
	return top, problems
}

// Prune removes cached entries for files not in keep.
func (c *Cache) Prune(keep []string) error {
	checksums, err := c.store.AllChecksums()
	if err != nil {
		return err
	}
	live := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		live[p] = struct{}{}
	}
	for p := range checksums {
		if _, ok := live[p]; ok {
			continue
		}
		if err := c.store.Delete(p); err != nil {
			c.logger.Warn("cache: delete failed", slog.String("path", p), slog.String("error", err.Error()))
		} else {
			c.logger.Debug("cache: removed stale", slog.String("path", p))
		}
	}
	return nil
}
