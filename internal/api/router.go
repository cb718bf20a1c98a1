package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/doclinks/internal/linkservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *linkservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Checks.
	r.Get("/report", h.Report)
	r.Post("/check", h.Check)

	// Documents.
	r.Get("/anchors/*", h.Anchors)
	r.Get("/slug", h.Slug)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
