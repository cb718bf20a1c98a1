// Package report renders validation reports for the console.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/doclinks/internal/validator"
)

// Format selects the output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []string{string(FormatText), string(FormatJSON)}

// Write renders rep to w in the given format. Colour only applies to text
// output and is further limited by what w supports.
func Write(w io.Writer, rep *validator.Report, format Format, color bool) error {
	switch format {
	case FormatJSON:
		return JSON(w, rep)
	case FormatText, "":
		return Text(w, rep, color)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

type paint func(string) string

func plain(s string) string { return s }

type styles struct {
	problem paint
	ok      paint
}

func newStyles(w io.Writer, color bool) *styles {
	if !color {
		return &styles{problem: plain, ok: plain}
	}
	r := lipgloss.NewRenderer(w)
	red := r.NewStyle().Foreground(lipgloss.Color("9"))
	green := r.NewStyle().Foreground(lipgloss.Color("10"))
	return &styles{
		problem: func(s string) string { return red.Render(s) },
		ok:      func(s string) string { return green.Render(s) },
	}
}

// Text writes every problem, a blank line when there were any, then one
// aligned summary line per file.
func Text(w io.Writer, rep *validator.Report, color bool) error {
	st := newStyles(w, color)
	var b strings.Builder

	for _, p := range rep.Problems {
		b.WriteString(st.problem(p.Error()))
		b.WriteByte('\n')
	}
	if len(rep.Problems) > 0 {
		b.WriteByte('\n')
	}

	width := 0
	for _, f := range rep.Files {
		width = max(width, len(f.Path))
	}
	for _, f := range rep.Files {
		failed := fmt.Sprintf("%d failed", len(f.Failed))
		if len(f.Failed) > 0 {
			failed = st.problem(failed)
		} else {
			failed = st.ok(failed)
		}
		fmt.Fprintf(&b, "%-*s | %d checked, %d unchecked, %s\n",
			width, f.Path, len(f.Checked), len(f.Unchecked), failed)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FileSummary is the per-file part of Summary.
type FileSummary struct {
	Path        string   `json:"path"`
	Checked     int      `json:"checked"`
	Unchecked   int      `json:"unchecked"`
	Failed      int      `json:"failed"`
	FailedLinks []string `json:"failed_links,omitempty"`
}

// Summary is the JSON shape of a report, shared by the CLI, the HTTP API and
// the MCP tools.
type Summary struct {
	OK       bool          `json:"ok"`
	Problems []string      `json:"problems"`
	Files    []FileSummary `json:"files"`
}

// Summarize converts rep into a Summary.
func Summarize(rep *validator.Report) Summary {
	out := Summary{
		OK:       rep.OK(),
		Problems: rep.Problems.Strings(),
		Files:    make([]FileSummary, 0, len(rep.Files)),
	}
	for _, f := range rep.Files {
		out.Files = append(out.Files, FileSummary{
			Path:        f.Path,
			Checked:     len(f.Checked),
			Unchecked:   len(f.Unchecked),
			Failed:      len(f.Failed),
			FailedLinks: f.Failed,
		})
	}
	return out
}

// JSON writes rep as indented JSON.
func JSON(w io.Writer, rep *validator.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Summarize(rep))
}
