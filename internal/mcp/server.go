// Package mcp provides an MCP (Model Context Protocol) server that exposes
// session audit functionality as MCP tools for AI coding assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mklann/ccaudit/internal/report"
	"github.com/mklann/ccaudit/internal/session"
	"github.com/mklann/ccaudit/internal/transcript"
	"github.com/mklann/ccaudit/pkg/models"
)

// exportTimelineCap bounds timelines returned over MCP.
const exportTimelineCap = 50

// Server wraps session discovery and transcript scanning as MCP tools.
type Server struct {
	server     *gomcp.Server
	discoverer *session.Discoverer
	scanner    *transcript.Scanner
}

// NewServer creates the MCP server over the given projects directory.
func NewServer(projectsDir, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		discoverer: session.NewDiscoverer(projectsDir),
		scanner:    transcript.NewScanner(),
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "ccaudit", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listSessionsInput struct {
	Date   string `json:"date,omitempty" jsonschema:"filter to sessions started on this local date (YYYY-MM-DD)"`
	All    bool   `json:"all,omitempty" jsonschema:"include every discovered session"`
	Recent int    `json:"recent,omitempty" jsonschema:"number of most recent sessions to return (default 1)"`
}

type sessionOutput struct {
	FilePath        string `json:"file_path"`
	Project         string `json:"project"`
	StartedAt       string `json:"started_at"`
	EndedAt         string `json:"ended_at"`
	DurationMinutes int    `json:"duration_minutes"`
	SizeBytes       int64  `json:"size_bytes"`
	IsSubagent      bool   `json:"is_subagent"`
}

type listSessionsOutput struct {
	Sessions []sessionOutput `json:"sessions"`
	Count    int             `json:"count"`
}

type auditSessionInput struct {
	FilePath string `json:"file_path" jsonschema:"required,path to the session transcript (.jsonl) to audit"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_sessions",
		Description: "List discovered Claude Code sessions. Supports date filtering, an all-sessions mode, and a most-recent-N default.",
	}, s.handleListSessions)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "audit_session",
		Description: "Audit one session transcript: tool call counts, files created/modified, bash commands, git commits, and risk flags.",
	}, s.handleAuditSession)
}

// --- Tool handlers ---

func (s *Server) handleListSessions(_ context.Context, _ *gomcp.CallToolRequest, input listSessionsInput) (*gomcp.CallToolResult, listSessionsOutput, error) {
	sessions, err := s.discoverer.Discover()
	if err != nil {
		return errorResult(fmt.Sprintf("discovering sessions: %s", err)), listSessionsOutput{}, nil
	}

	selected := session.Select(sessions, session.Selection{
		Date:   input.Date,
		All:    input.All,
		Recent: input.Recent,
	})

	out := listSessionsOutput{
		Sessions: make([]sessionOutput, len(selected)),
		Count:    len(selected),
	}
	for i, sess := range selected {
		out.Sessions[i] = sessionToOutput(sess)
	}
	return nil, out, nil
}

func (s *Server) handleAuditSession(_ context.Context, _ *gomcp.CallToolRequest, input auditSessionInput) (*gomcp.CallToolResult, report.SessionExport, error) {
	if input.FilePath == "" {
		return errorResult("file_path is required"), report.SessionExport{}, nil
	}

	sessions, err := s.discoverer.Discover()
	if err != nil {
		return errorResult(fmt.Sprintf("discovering sessions: %s", err)), report.SessionExport{}, nil
	}

	var target *models.Session
	for i := range sessions {
		if sessions[i].FilePath == input.FilePath {
			target = &sessions[i]
			break
		}
	}
	if target == nil {
		return errorResult(fmt.Sprintf("no session found at %s", input.FilePath)), report.SessionExport{}, nil
	}

	result, err := s.scanner.Scan(target.FilePath)
	if err != nil {
		return errorResult(fmt.Sprintf("scanning %s: %s", target.FilePath, err)), report.SessionExport{}, nil
	}

	out := report.ExportSession(report.SessionAudit{Session: *target, Result: result}, exportTimelineCap)
	return nil, out, nil
}

// --- Helpers ---

func sessionToOutput(s models.Session) sessionOutput {
	return sessionOutput{
		FilePath:        s.FilePath,
		Project:         s.Project,
		StartedAt:       s.StartedAt.UTC().Format(time.RFC3339),
		EndedAt:         s.EndedAt.UTC().Format(time.RFC3339),
		DurationMinutes: s.DurationMinutes(),
		SizeBytes:       s.SizeBytes,
		IsSubagent:      s.IsSubagent,
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
