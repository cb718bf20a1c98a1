package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/linkservice"
	"github.com/starford/doclinks/internal/slug"
)

// Handler holds API route handlers.
type Handler struct {
	svc *linkservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *linkservice.Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the document path from the URL (everything after /anchors/).
// Supports encoded slashes from OpenAPI clients (e.g. guide%2Fsetup.md).
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Report handles GET /api/report.
//
//	@Summary		Get the latest check result
//	@Tags			checks
//	@Produce		json
//	@Success		200	{object}	RunResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/report [get]
func (h *Handler) Report(w http.ResponseWriter, _ *http.Request) {
	run, err := h.svc.Latest()
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("no check has completed yet"))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, newRunResponse(run))
}

// Check handles POST /api/check.
//
//	@Summary		Re-check every document now
//	@Tags			checks
//	@Produce		json
//	@Success		200	{object}	RunResponse
//	@Security		BearerAuth
//	@Router			/check [post]
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	run, err := h.svc.Check(r.Context(), nil)
	if err != nil {
		slog.Error("check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, newRunResponse(run))
}

// Anchors handles GET /api/anchors/*.
//
//	@Summary		List the anchors a document defines
//	@Tags			documents
//	@Produce		json
//	@Param			path	path		string	true	"Document path, extension optional"
//	@Success		200		{object}	AnchorsResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/anchors/{path} [get]
func (h *Handler) Anchors(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	anchors, err := h.svc.Anchors(r.Context(), path)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrInvalidPath):
			writeJSON(w, http.StatusBadRequest, errorBody("invalid path"))
		default:
			slog.Error("anchors failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, AnchorsResponse{Path: h.svc.DocPath(path), Anchors: anchors})
}

// Slug handles GET /api/slug.
//
//	@Summary		Compute the anchor for a heading
//	@Tags			documents
//	@Produce		json
//	@Param			heading		query		string		true	"Heading text"
//	@Param			previous	query		[]string	false	"Anchors already taken"
//	@Success		200			{object}	SlugResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/slug [get]
func (h *Handler) Slug(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	heading := strings.TrimSpace(q.Get("heading"))
	if heading == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'heading' is required"))
		return
	}
	writeJSON(w, http.StatusOK, SlugResponse{
		Heading: heading,
		Slug:    slug.Anchor(heading, q["previous"]),
	})
}
