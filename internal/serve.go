package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/doclinks/internal/api"
	"github.com/starford/doclinks/internal/checker"
	"github.com/starford/doclinks/internal/linkservice"
	"github.com/starford/doclinks/internal/sse"
	"github.com/starford/doclinks/internal/storage"
	"github.com/starford/doclinks/internal/watcher"
)

// newServeHandler builds the chi router for serve mode.
func newServeHandler(svc *linkservice.Service, broker *sse.Broker, cfg *Config) http.Handler {
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	// Ready once the first check has completed.
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := svc.Latest(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"starting"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","sse_clients":%d}`, broker.ClientCount())
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)
	return r
}

func (a *application) runServe(ctx context.Context, store storage.Provider, chk *checker.Checker, logger *slog.Logger) error {
	cfg := a.config

	// SSE broker.
	broker := sse.NewBroker(15 * time.Second)
	defer broker.Close()

	svc := linkservice.NewService(store, chk,
		linkservice.WithPublisher(broker),
		linkservice.WithLogger(logger))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newServeHandler(svc, broker, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Initial check, then re-check on every debounced change batch.
	g.Go(func() error {
		runCheck(gCtx, svc, broker, logger, nil)
		return watcher.Watch(gCtx, store.Root(), store.Extension(), cfg.Watch.Debounce, logger,
			func(ctx context.Context, changed []string) {
				runCheck(ctx, svc, broker, logger, changed)
			})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...", slog.Int("sse_clients", broker.ClientCount()))

		// Open SSE streams only end when the broker closes them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// runCheck runs one check. Successful runs reach SSE clients through the
// service's publisher; a failed run has no report, so it is published here as
// check.failed and the previous report stays current.
func runCheck(ctx context.Context, svc *linkservice.Service, broker *sse.Broker, logger *slog.Logger, changed []string) {
	if _, err := svc.Check(ctx, changed); err != nil {
		logger.Warn("check failed", slog.String("error", err.Error()), slog.Int("changed", len(changed)))
		broker.Publish(sse.Event{
			Type: sse.EventCheckFailed,
			Data: map[string]any{"error": err.Error(), "changed": changed},
		})
	}
}

// errShutdown cancels the errgroup context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")
