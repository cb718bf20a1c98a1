// Package validator resolves every file's links against the topologies of the
// whole document set.
package validator

import (
	"regexp"
	"strings"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/models"
	"github.com/starford/doclinks/internal/orderedset"
)

// DefaultExtension is appended to link paths to name the target file.
const DefaultExtension = ".md"

// DefaultExternalSchemes are link prefixes that are never resolved.
var DefaultExternalSchemes = []string{"mailto", "http", "https"}

// internalLinkRe splits "/path#anchor". Both parts are optional and an empty
// fragment ("#", "/guide#") means no anchor.
var internalLinkRe = regexp.MustCompile(`^(?:/([^#]+))?(?:#(.*))?$`)

// File is one extracted file handed to Validate.
type File struct {
	Path     string
	Topology *models.Topology
	// Problems found while extracting the topology.
	Problems []apperr.Problem
}

// FileResult holds the three disjoint link buckets of one file.
type FileResult struct {
	Path      string   `json:"path"`
	Checked   []string `json:"checked"`
	Unchecked []string `json:"unchecked"`
	Failed    []string `json:"failed"`
}

// Total returns the number of classified links.
func (r *FileResult) Total() int {
	return len(r.Checked) + len(r.Unchecked) + len(r.Failed)
}

// Report is the outcome of validating a document set.
type Report struct {
	Problems apperr.Problems `json:"problems"`
	Files    []FileResult    `json:"files"`
}

// OK reports whether no problem was recorded.
func (r *Report) OK() bool { return len(r.Problems) == 0 }

// File returns the result for path, or nil.
func (r *Report) File(path string) *FileResult {
	for i := range r.Files {
		if r.Files[i].Path == path {
			return &r.Files[i]
		}
	}
	return nil
}

type options struct {
	extension string
	schemes   []string
}

// Option configures Validate.
type Option func(*options)

// WithExtension sets the extension appended to link paths.
func WithExtension(ext string) Option {
	return func(o *options) {
		if ext != "" {
			o.extension = ext
		}
	}
}

// WithExternalSchemes replaces the list of unchecked link schemes.
func WithExternalSchemes(schemes []string) Option {
	return func(o *options) {
		if len(schemes) > 0 {
			o.schemes = schemes
		}
	}
}

// Validate classifies every link of every file. Files with a path seen
// earlier in the slice are ignored. All topologies must be complete before
// calling.
func Validate(files []File, opts ...Option) *Report {
	o := options{extension: DefaultExtension, schemes: DefaultExternalSchemes}
	for _, opt := range opts {
		opt(&o)
	}

	paths := orderedset.New[string]()
	byPath := make(map[string]File, len(files))
	for _, f := range files {
		if paths.Add(f.Path) {
			byPath[f.Path] = f
		}
	}

	rep := &Report{Files: make([]FileResult, 0, paths.Len())}
	for _, p := range paths.Items() {
		rep.Problems = append(rep.Problems, byPath[p].Problems...)
	}

	for _, p := range paths.Items() {
		f := byPath[p]
		res := FileResult{
			Path:      p,
			Checked:   []string{},
			Unchecked: []string{},
			Failed:    []string{},
		}
		for _, label := range f.Topology.Unresolved {
			res.Failed = append(res.Failed, "["+label+"]")
		}
		for _, link := range f.Topology.Links {
			if o.isExternal(link) {
				res.Unchecked = append(res.Unchecked, link)
				continue
			}
			if prob := resolve(p, link, o.extension, byPath); prob != nil {
				rep.Problems = append(rep.Problems, *prob)
				res.Failed = append(res.Failed, link)
				continue
			}
			res.Checked = append(res.Checked, link)
		}
		rep.Files = append(rep.Files, res)
	}
	return rep
}

func (o *options) isExternal(link string) bool {
	for _, s := range o.schemes {
		if strings.HasPrefix(link, s+":") {
			return true
		}
	}
	return false
}

// resolve checks one internal link of file and returns the problem it has,
// if any.
func resolve(file, link, ext string, byPath map[string]File) *apperr.Problem {
	m := internalLinkRe.FindStringSubmatch(link)
	if m == nil {
		return &apperr.Problem{Kind: apperr.KindMalformedLink, File: file, Subject: link}
	}
	path := strings.TrimSuffix(m[1], "/")
	anchor := m[2]

	target := file
	if path != "" {
		target = path + ext
	}
	dst, ok := byPath[target]
	if !ok {
		return &apperr.Problem{Kind: apperr.KindMissingPath, File: file, Subject: path}
	}
	if anchor != "" && !dst.Topology.HasAnchor(anchor) {
		return &apperr.Problem{Kind: apperr.KindMissingAnchor, File: file, Subject: anchor, Target: target}
	}
	return nil
}
