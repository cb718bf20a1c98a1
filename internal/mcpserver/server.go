// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes doclinks tools for LLM integration via stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/linkservice"
	"github.com/starford/doclinks/internal/report"
	"github.com/starford/doclinks/internal/slug"
)

const linkSyntaxURI = "doclinks://link-syntax"

// Server wraps the MCP server with doclinks tools.
type Server struct {
	mcp *server.MCPServer
	svc *linkservice.Service
}

// New creates a new MCP server with all doclinks tools registered.
func New(svc *linkservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"doclinks",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("check_links",
		mcp.WithDescription("Check every cross-reference in the documentation tree and report "+
			"duplicate or undefined labels, malformed links, missing files and missing anchors."),
		mcp.WithString("format",
			mcp.Description("Report format: text (default) or json"),
			mcp.Enum(report.Formats...),
		),
	), s.checkLinks)

	s.mcp.AddTool(mcp.NewTool("list_anchors",
		mcp.WithDescription("List the anchors a document defines, in heading order."),
		mcp.WithString("path", mcp.Required(),
			mcp.Description("Document path relative to the docs root; the extension and a leading slash are optional")),
	), s.listAnchors)

	s.mcp.AddTool(mcp.NewTool("slugify",
		mcp.WithDescription("Compute the anchor a heading produces. Pass the anchors of earlier "+
			"headings in the same document to get the collision suffix right."),
		mcp.WithString("heading", mcp.Required(), mcp.Description("Heading text without the leading #")),
		mcp.WithArray("previous", mcp.Description("Anchors already taken in the document"), mcp.WithStringItems()),
	), s.slugify)

	s.mcp.AddTool(mcp.NewTool("read_doc",
		mcp.WithDescription("Read the full content of a Markdown document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Document path relative to the docs root")),
	), s.readDoc)

	s.mcp.AddTool(mcp.NewTool("list_docs",
		mcp.WithDescription("List all documents or the documents in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listDocs)

	s.mcp.AddTool(mcp.NewTool("get_link_syntax",
		mcp.WithDescription("Returns the link syntax the checker understands. "+
			"Call this before editing links so the result validates."),
	), s.getLinkSyntax)

	// Resource: link syntax reference.
	s.mcp.AddResource(
		mcp.NewResource(linkSyntaxURI, "Link Syntax",
			mcp.WithResourceDescription("Cross-reference syntax accepted by the link checker."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkSyntaxResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) checkLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := report.Format(req.GetString("format", string(report.FormatText)))
	run, err := s.svc.Check(ctx, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, run.Report, format, false); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) listAnchors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	anchors, err := s.svc.Anchors(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(anchors) == 0 {
		return mcp.NewToolResultText("no anchors found"), nil
	}
	return mcp.NewToolResultText(strings.Join(anchors, "\n")), nil
}

func (s *Server) slugify(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	heading, err := req.RequireString("heading")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	previous := req.GetStringSlice("previous", nil)
	return mcp.NewToolResultText(slug.Anchor(strings.TrimSpace(heading), previous)), nil
}

func (s *Server) readDoc(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.svc.Store().Read(s.svc.DocPath(path))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listDocs(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := req.GetString("folder", "")

	metas, err := s.svc.Store().List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	paths := make([]string, 0, len(metas))
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) getLinkSyntax(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(LinkSyntax), nil
}

func (s *Server) readLinkSyntaxResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      linkSyntaxURI,
			MIMEType: "text/markdown",
			Text:     LinkSyntax,
		},
	}, nil
}
