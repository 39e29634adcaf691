package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mklann/ccaudit/pkg/models"
)

// SchemaVersion tags the structured export format.
const SchemaVersion = "1"

// Document is the structured (JSON/YAML) form of an audit run.
type Document struct {
	SchemaVersion string          `json:"schema_version" yaml:"schema_version"`
	GeneratedAt   string          `json:"generated_at" yaml:"generated_at"`
	SessionCount  int             `json:"session_count" yaml:"session_count"`
	Sessions      []SessionExport `json:"sessions" yaml:"sessions"`
	Totals        models.Totals   `json:"totals" yaml:"totals"`
}

// SessionExport is one session's entry in the structured document.
type SessionExport struct {
	Project         string          `json:"project" yaml:"project"`
	StartedAt       string          `json:"started_at" yaml:"started_at"`
	EndedAt         string          `json:"ended_at" yaml:"ended_at"`
	DurationMinutes int             `json:"duration_minutes" yaml:"duration_minutes"`
	SizeBytes       int64           `json:"size_bytes" yaml:"size_bytes"`
	IsSubagent      bool            `json:"is_subagent" yaml:"is_subagent"`
	ToolCalls       int             `json:"tool_calls" yaml:"tool_calls"`
	FilesCreated    int             `json:"files_created" yaml:"files_created"`
	FilesModified   int             `json:"files_modified" yaml:"files_modified"`
	FilesRead       int             `json:"files_read" yaml:"files_read"`
	BashCommands    int             `json:"bash_commands" yaml:"bash_commands"`
	GitCommits      int             `json:"git_commits" yaml:"git_commits"`
	Timeline        []TimelineEntry `json:"timeline" yaml:"timeline"`
	RiskFlags       []string        `json:"risk_flags" yaml:"risk_flags"`
}

// TimelineEntry is one deduplicated action with an ISO timestamp.
type TimelineEntry struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Kind      string `json:"kind" yaml:"kind"`
	Detail    string `json:"detail" yaml:"detail"`
}

// BuildDocument assembles the structured document from audited sessions.
// timelineCap bounds the exported timeline per session, matching the
// human-mode report.
func BuildDocument(audits []SessionAudit, totals models.Totals, timelineCap int) Document {
	doc := Document{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		SessionCount:  len(audits),
		Sessions:      make([]SessionExport, 0, len(audits)),
		Totals:        totals,
	}

	for _, sa := range audits {
		doc.Sessions = append(doc.Sessions, ExportSession(sa, timelineCap))
	}
	return doc
}

// ExportSession converts one audited session into its structured form.
func ExportSession(sa SessionAudit, timelineCap int) SessionExport {
	s, res := sa.Session, sa.Result

	deduped := DedupTimeline(res.Actions)
	if timelineCap > 0 && len(deduped) > timelineCap {
		deduped = deduped[:timelineCap]
	}
	timeline := make([]TimelineEntry, 0, len(deduped))
	for _, a := range deduped {
		timeline = append(timeline, TimelineEntry{
			Timestamp: a.Timestamp.UTC().Format(time.RFC3339),
			Kind:      string(a.Kind),
			Detail:    a.Detail,
		})
	}

	flags := make([]string, 0, len(res.RiskFlags))
	for _, f := range res.RiskFlags {
		flags = append(flags, f.Label)
	}

	return SessionExport{
		Project:         s.Project,
		StartedAt:       s.StartedAt.UTC().Format(time.RFC3339),
		EndedAt:         s.EndedAt.UTC().Format(time.RFC3339),
		DurationMinutes: s.DurationMinutes(),
		SizeBytes:       s.SizeBytes,
		IsSubagent:      s.IsSubagent,
		ToolCalls:       res.ToolCalls,
		FilesCreated:    len(res.FilesCreated),
		FilesModified:   len(res.FilesModified),
		FilesRead:       len(res.FilesRead),
		BashCommands:    len(res.BashCommands),
		GitCommits:      len(res.GitCommits),
		Timeline:        timeline,
		RiskFlags:       flags,
	}
}

// WriteJSON encodes the document as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}

// WriteYAML encodes the document as YAML.
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding YAML report: %w", err)
	}
	return nil
}
