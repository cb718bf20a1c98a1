// Package linkservice runs link checks on demand and remembers the latest
// result for the HTTP and MCP surfaces.
package linkservice

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/checker"
	"github.com/starford/doclinks/internal/models"
	"github.com/starford/doclinks/internal/sse"
	"github.com/starford/doclinks/internal/storage"
	"github.com/starford/doclinks/internal/validator"
)

// Run is one completed check.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	// Changed lists the paths that triggered the run, if known.
	Changed []string
	Report  *validator.Report
}

// Publisher receives a summary of every completed run.
type Publisher interface {
	PublishReport(ev sse.ReportEvent)
}

// Service coordinates storage and the checker.
type Service struct {
	store   storage.Provider
	checker *checker.Checker
	pub     Publisher
	logger  *slog.Logger

	runMu sync.Mutex // serialises checks

	mu   sync.RWMutex
	last *Run
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher publishes a summary of every run to p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.pub = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a new link service.
func NewService(store storage.Provider, chk *checker.Checker, opts ...Option) *Service {
	s := &Service{store: store, checker: chk, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying document store.
func (s *Service) Store() storage.Provider {
	return s.store
}

// Check validates every document in the store and records the result as the
// latest run. Concurrent calls are serialised.
func (s *Service) Check(ctx context.Context, changed []string) (*Run, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := time.Now()
	rep, err := s.checker.CheckStore(ctx, s.store)
	if err != nil {
		return nil, err
	}
	run := &Run{
		ID:         uuid.NewString(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		Changed:    changed,
		Report:     rep,
	}

	s.mu.Lock()
	s.last = run
	s.mu.Unlock()

	s.logger.Info("check: run complete",
		slog.String("run_id", run.ID),
		slog.Int("files", len(rep.Files)),
		slog.Int("problems", len(rep.Problems)),
		slog.Duration("took", run.FinishedAt.Sub(run.StartedAt)))

	if s.pub != nil {
		s.pub.PublishReport(sse.ReportEvent{
			RunID:    run.ID,
			OK:       rep.OK(),
			Problems: len(rep.Problems),
			Files:    len(rep.Files),
			Changed:  changed,
		})
	}
	return run, nil
}

// Latest returns the most recent run, or apperr.ErrNotFound before the first
// check completes.
func (s *Service) Latest() (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, apperr.ErrNotFound
	}
	return s.last, nil
}

// Anchors returns the anchors of the document at path. The extension may be
// omitted, and a leading slash is ignored, so link paths can be passed as is.
func (s *Service) Anchors(_ context.Context, path string) ([]string, error) {
	path = s.DocPath(path)
	if path == "" {
		return nil, apperr.ErrInvalidPath
	}
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	top, _ := s.checker.Extract(models.Document{Path: path, Content: data})
	return nonNilSlice(top.Anchors), nil
}

// DocPath maps a link path such as "/guide/setup" to the store path
// "guide/setup.md".
func (s *Service) DocPath(path string) string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "/")
	if path == "" {
		return ""
	}
	if ext := s.store.Extension(); !strings.HasSuffix(path, ext) {
		path += ext
	}
	return path
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
