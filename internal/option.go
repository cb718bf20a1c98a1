package internal

import (
	"io"

	"github.com/starford/doclinks/internal/report"
)

// Mode selects what Run does.
type Mode string

const (
	// ModeCheck checks once, writes the report and exits.
	ModeCheck Mode = "check"
	// ModeWatch checks, then re-checks whenever a document changes.
	ModeWatch Mode = "watch"
	// ModeServe runs the HTTP API with live report events.
	ModeServe Mode = "serve"
	// ModeMCP serves the MCP tools over stdio.
	ModeMCP Mode = "mcp"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	mode    Mode
	out     io.Writer
	logOut  io.Writer
	format  report.Format
	color   bool
	version string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithMode sets the run mode. The default is ModeCheck.
func WithMode(m Mode) Option {
	return func(a *application) {
		a.mode = m
	}
}

// WithOutput sets where reports are written. The default is stdout.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithLogOutput sets where logs are written. The default is stderr, except in
// serve mode where it is stdout.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithFormat sets the report format.
func WithFormat(f report.Format) Option {
	return func(a *application) {
		a.format = f
	}
}

// WithColor enables coloured text reports where the output supports it.
func WithColor(on bool) Option {
	return func(a *application) {
		a.color = on
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}
