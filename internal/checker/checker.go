// Package checker runs the link check pipeline: load every document, extract
// every topology, then validate the whole set.
package checker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/models"
	"github.com/starford/doclinks/internal/orderedset"
	"github.com/starford/doclinks/internal/parser"
	"github.com/starford/doclinks/internal/storage"
	"github.com/starford/doclinks/internal/validator"
)

const loadConcurrency = 8

// Extractor builds the topology of a single document.
type Extractor interface {
	Extract(doc models.Document) (*models.Topology, []apperr.Problem)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(doc models.Document) (*models.Topology, []apperr.Problem)

// Extract calls f(doc).
func (f ExtractorFunc) Extract(doc models.Document) (*models.Topology, []apperr.Problem) {
	return f(doc)
}

// pruner is implemented by extractors that keep per-file state.
type pruner interface {
	Prune(keep []string) error
}

// ParseExtractor extracts topologies without caching.
var ParseExtractor = ExtractorFunc(func(doc models.Document) (*models.Topology, []apperr.Problem) {
	return parser.Extract(doc.Content, doc.Path)
})

// Checker validates document sets.
type Checker struct {
	extractor Extractor
	schemes   []string
	logger    *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithExtractor replaces the default parser-backed extractor.
func WithExtractor(e Extractor) Option {
	return func(c *Checker) {
		c.extractor = e
	}
}

// WithExternalSchemes sets the link schemes that are reported unchecked.
func WithExternalSchemes(schemes []string) Option {
	return func(c *Checker) {
		c.schemes = schemes
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = l
	}
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		extractor: ParseExtractor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Extract builds the topology of a single document with the configured
// extractor.
func (c *Checker) Extract(doc models.Document) (*models.Topology, []apperr.Problem) {
	return c.extractor.Extract(doc)
}

// Check validates docs. Documents whose path was already seen are ignored.
// ext is the document extension used to resolve link paths; empty means the
// validator default.
func (c *Checker) Check(docs []models.Document, ext string) *validator.Report {
	paths := orderedset.New[string]()
	files := make([]validator.File, 0, len(docs))
	for _, d := range docs {
		if !paths.Add(d.Path) {
			c.logger.Debug("check: duplicate document ignored", slog.String("path", d.Path))
			continue
		}
		top, problems := c.extractor.Extract(d)
		files = append(files, validator.File{Path: d.Path, Topology: top, Problems: problems})
	}

	// Every topology is built; cross-file resolution may start.
	if p, ok := c.extractor.(pruner); ok {
		if err := p.Prune(paths.Items()); err != nil {
			c.logger.Warn("check: prune failed", slog.String("error", err.Error()))
		}
	}

	rep := validator.Validate(files,
		validator.WithExtension(ext),
		validator.WithExternalSchemes(c.schemes),
	)
	c.logger.Debug("check: done",
		slog.Int("files", len(rep.Files)),
		slog.Int("problems", len(rep.Problems)))
	return rep
}

// CheckStore loads every document from store and validates them.
func (c *Checker) CheckStore(ctx context.Context, store storage.Provider) (*validator.Report, error) {
	docs, err := Load(ctx, store)
	if err != nil {
		return nil, err
	}
	return c.Check(docs, store.Extension()), nil
}

// Load reads every document in store, concurrently, preserving list order.
func Load(ctx context.Context, store storage.Provider) ([]models.Document, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, fmt.Errorf("checker: list: %w", err)
	}

	docs := make([]models.Document, len(metas))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, m := range metas {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			data, err := store.Read(m.Path)
			if err != nil {
				return err
			}
			docs[i] = models.Document{Path: m.Path, Content: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("checker: load: %w", err)
	}
	return docs, nil
}
