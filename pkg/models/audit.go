package models

import "time"

// ActionKind classifies an entry in the per-session action timeline.
type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionModify ActionKind = "modify"
	ActionBash   ActionKind = "bash"
	ActionGit    ActionKind = "git"
	ActionTask   ActionKind = "task"
	ActionOther  ActionKind = "other"
)

// ActionRecord is a single timeline entry extracted from a transcript.
type ActionRecord struct {
	Timestamp time.Time  `json:"timestamp"`
	Kind      ActionKind `json:"kind"`
	Detail    string     `json:"detail"`
}

// BashCommand is one shell invocation recorded during a session.
type BashCommand struct {
	Timestamp   time.Time `json:"timestamp"`
	Command     string    `json:"command"`
	Description string    `json:"description,omitempty"`
}

// GitCommit is one detected git commit invocation.
type GitCommit struct {
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
}

// RiskFlag marks a shell command that matched a risk signature.
type RiskFlag struct {
	Timestamp time.Time `json:"timestamp"`
	Label     string    `json:"label"`
	Command   string    `json:"command"`
}

// AuditResult is the full extraction for one session. It is built once by
// the transcript scanner and never mutated afterwards. The file sets hold at
// most one entry per distinct shortened path; insertion order follows the
// transcript, which is append-only and chronological.
type AuditResult struct {
	Actions       []ActionRecord
	FilesCreated  []string
	FilesModified []string
	FilesRead     []string
	BashCommands  []BashCommand
	GitCommits    []GitCommit
	RiskFlags     []RiskFlag
	ToolCalls     int
}

// Totals accumulates summary counts across a batch of audited sessions.
type Totals struct {
	Sessions      int `json:"sessions" yaml:"sessions"`
	ToolCalls     int `json:"tool_calls" yaml:"tool_calls"`
	FilesCreated  int `json:"files_created" yaml:"files_created"`
	FilesModified int `json:"files_modified" yaml:"files_modified"`
	BashCommands  int `json:"bash_commands" yaml:"bash_commands"`
	GitCommits    int `json:"git_commits" yaml:"git_commits"`
	RiskFlags     int `json:"risk_flags" yaml:"risk_flags"`
}

// Add folds one session's audit result into the running totals.
func (t *Totals) Add(r *AuditResult) {
	t.Sessions++
	t.ToolCalls += r.ToolCalls
	t.FilesCreated += len(r.FilesCreated)
	t.FilesModified += len(r.FilesModified)
	t.BashCommands += len(r.BashCommands)
	t.GitCommits += len(r.GitCommits)
	t.RiskFlags += len(r.RiskFlags)
}
