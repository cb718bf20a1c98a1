package api

import (
	"time"

	"github.com/starford/doclinks/internal/linkservice"
	"github.com/starford/doclinks/internal/report"
)

// RunResponse describes one completed check.
type RunResponse struct {
	RunID      string    `json:"run_id" example:"5b7f0c1e-0d7e-4c1a-9f0e-2b6f1d3c4a5e" validate:"required"`
	StartedAt  time.Time `json:"started_at" validate:"required"`
	FinishedAt time.Time `json:"finished_at" validate:"required"`
	Changed    []string  `json:"changed,omitempty" example:"guide/setup.md"`
	report.Summary
}

func newRunResponse(run *linkservice.Run) RunResponse {
	return RunResponse{
		RunID:      run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Changed:    run.Changed,
		Summary:    report.Summarize(run.Report),
	}
}

// AnchorsResponse lists the anchors of one document.
type AnchorsResponse struct {
	Path    string   `json:"path" example:"guide/setup.md" validate:"required"`
	Anchors []string `json:"anchors" example:"setup,install" validate:"required"`
}

// SlugResponse is the anchor generated for a heading.
type SlugResponse struct {
	Heading string `json:"heading" example:"Getting Started" validate:"required"`
	Slug    string `json:"slug" example:"getting-started" validate:"required"`
}
