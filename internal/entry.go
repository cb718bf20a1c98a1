// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/checker"
	"github.com/starford/doclinks/internal/index"
	"github.com/starford/doclinks/internal/linkservice"
	"github.com/starford/doclinks/internal/mcpserver"
	"github.com/starford/doclinks/internal/report"
	"github.com/starford/doclinks/internal/storage"
	"github.com/starford/doclinks/internal/watcher"
)

var modes = []Mode{ModeCheck, ModeWatch, ModeServe, ModeMCP}

// Run starts the application with the given options. In check mode it
// returns apperr.ErrLinksBroken when the report has problems.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		mode:    ModeCheck,
		out:     os.Stdout,
		format:  report.FormatText,
		version: "dev",
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if !slices.Contains(modes, app.mode) {
		return fmt.Errorf("unknown mode %q", app.mode)
	}

	cfg := app.config

	// Initialize structured JSON logger. Only serve mode owns stdout; the
	// other modes write reports or the MCP protocol there.
	if app.logOut == nil {
		app.logOut = os.Stderr
		if app.mode == ModeServe {
			app.logOut = os.Stdout
		}
	}
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("mode", string(app.mode)),
		slog.String("docs_root", cfg.Docs.Root),
		slog.String("extension", cfg.Docs.Extension),
		slog.Bool("cache_enabled", cfg.Cache.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize storage.
	store, err := storage.NewFS(cfg.Docs.Root, cfg.Docs.Extension)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	chkOpts := []checker.Option{
		checker.WithExternalSchemes(cfg.Docs.ExternalSchemes),
		checker.WithLogger(logger),
	}

	// Initialize SQLite topology cache.
	if cfg.Cache.Enabled {
		db, err := index.Open(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("init cache: %w", err)
		}
		defer db.Close()
		chkOpts = append(chkOpts, checker.WithExtractor(index.NewCache(db, logger)))
	}

	chk := checker.New(chkOpts...)

	switch app.mode {
	case ModeWatch:
		return app.runWatch(ctx, store, chk, logger)
	case ModeServe:
		return app.runServe(ctx, store, chk, logger)
	case ModeMCP:
		svc := linkservice.NewService(store, chk, linkservice.WithLogger(logger))
		logger.Info("MCP server starting on stdio")
		return mcpserver.New(svc, app.version).ServeStdio()
	default:
		return app.runCheck(ctx, store, chk, logger)
	}
}

func (a *application) runCheck(ctx context.Context, store storage.Provider, chk *checker.Checker, logger *slog.Logger) error {
	svc := linkservice.NewService(store, chk, linkservice.WithLogger(logger))
	run, err := a.checkAndWrite(ctx, svc, nil)
	if err != nil {
		return err
	}
	if !run.Report.OK() {
		return apperr.ErrLinksBroken
	}
	return nil
}

func (a *application) runWatch(ctx context.Context, store storage.Provider, chk *checker.Checker, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := linkservice.NewService(store, chk, linkservice.WithLogger(logger))
	if _, err := a.checkAndWrite(ctx, svc, nil); err != nil {
		return err
	}

	return watcher.Watch(ctx, store.Root(), store.Extension(), a.config.Watch.Debounce, logger,
		func(ctx context.Context, changed []string) {
			if _, err := a.checkAndWrite(ctx, svc, changed); err != nil {
				logger.Error("watch: check failed", slog.String("error", err.Error()))
			}
		})
}

// checkAndWrite runs one check and writes its report to the configured output.
func (a *application) checkAndWrite(ctx context.Context, svc *linkservice.Service, changed []string) (*linkservice.Run, error) {
	run, err := svc.Check(ctx, changed)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}
	if err := report.Write(a.out, run.Report, a.format, a.color); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return run, nil
}
