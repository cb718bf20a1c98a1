package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/validator"
)

func sampleReport() *validator.Report {
	return &validator.Report{
		Problems: apperr.Problems{
			{Kind: apperr.KindMissingPath, File: "guide.md", Subject: "gone"},
		},
		Files: []validator.FileResult{
			{Path: "a.md", Checked: []string{"#x", "/guide"}, Unchecked: []string{}, Failed: []string{}},
			{Path: "guide.md", Checked: []string{}, Unchecked: []string{"https://x"}, Failed: []string{"/gone"}},
		},
	}
}

func TestText_Layout(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, sampleReport(), false); err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "In 'guide.md': Path 'gone' does not exist\n" +
		"\n" +
		"a.md     | 2 checked, 0 unchecked, 0 failed\n" +
		"guide.md | 0 checked, 1 unchecked, 1 failed\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestText_NoProblemsNoBlankLine(t *testing.T) {
	rep := &validator.Report{Files: []validator.FileResult{{Path: "a.md"}}}
	var buf bytes.Buffer
	_ = Text(&buf, rep, false)
	if got := buf.String(); got != "a.md | 0 checked, 0 unchecked, 0 failed\n" {
		t.Errorf("output = %q", got)
	}
}

func TestText_ColorKeepsContent(t *testing.T) {
	var buf bytes.Buffer
	_ = Text(&buf, sampleReport(), true)
	if !strings.Contains(buf.String(), "Path 'gone' does not exist") {
		t.Errorf("output missing problem: %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport(), FormatJSON, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var got struct {
		OK       bool     `json:"ok"`
		Problems []string `json:"problems"`
		Files    []struct {
			Path        string   `json:"path"`
			Checked     int      `json:"checked"`
			Failed      int      `json:"failed"`
			FailedLinks []string `json:"failed_links"`
		} `json:"files"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if got.OK || len(got.Problems) != 1 || len(got.Files) != 2 {
		t.Errorf("report = %+v", got)
	}
	if got.Files[0].Checked != 2 || got.Files[1].Failed != 1 || got.Files[1].FailedLinks[0] != "/gone" {
		t.Errorf("files = %+v", got.Files)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sampleReport(), Format("xml"), false); err == nil {
		t.Error("expected error for unknown format")
	}
}
