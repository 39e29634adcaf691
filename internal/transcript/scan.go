package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mklann/ccaudit/pkg/models"
)

const (
	// bashDetailMax caps the command text used as a bash action detail.
	bashDetailMax = 80
	// otherDetailMax caps the serialized input shown for unknown tools.
	otherDetailMax = 60
	// minBashLen is the trimmed command length below which no bash action
	// is recorded.
	minBashLen = 5
)

// noisyPrograms are read-only commands that would flood the timeline with
// no audit value. They still count as tool calls and bash commands.
var noisyPrograms = map[string]bool{
	"ls": true, "cat": true, "head": true, "tail": true,
	"echo": true, "pwd": true, "date": true, "wc": true,
	"grep": true, "rg": true, "find": true,
}

// suppressedTools produce no action at all: high volume, low signal.
var suppressedTools = map[string]bool{
	"LS": true, "Glob": true, "Grep": true,
}

// deniedTools are known auxiliary tools excluded from the "other" bucket.
var deniedTools = map[string]bool{
	"NotebookEdit": true, "WebFetch": true, "WebSearch": true, "BashOutput": true,
}

var (
	gitCommitRe = regexp.MustCompile(`\bgit\s+commit\b`)
	gitPushRe   = regexp.MustCompile(`\bgit\s+push\b`)
)

// transcriptLine is the JSON shape of one JSONL record.
type transcriptLine struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Message   *messagePayload `json:"message"`
}

type messagePayload struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// contentBlock is one element of an assistant message's content array.
type contentBlock struct {
	Type  string          `json:"type"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// toolInput covers the input fields the classifier cares about. Tool inputs
// are tool-specific; unknown fields are ignored.
type toolInput struct {
	FilePath     string `json:"file_path"`
	Command      string `json:"command"`
	Description  string `json:"description"`
	SubagentType string `json:"subagent_type"`
}

// Scanner extracts an AuditResult from a transcript file.
type Scanner struct {
	// Home is the directory prefix rendered as "~" in file paths.
	Home string
	// ChunkSize overrides the read block size; zero means DefaultChunkSize.
	ChunkSize int
}

// NewScanner returns a Scanner with the current user's home directory.
func NewScanner() *Scanner {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &Scanner{Home: home}
}

// Scan reads the transcript at path and classifies every assistant tool
// invocation into the audit result. Lines that fail to parse as JSON are
// skipped; transcripts may end in a partial write.
func (s *Scanner) Scan(path string) (*models.AuditResult, error) {
	acc := newAccumulator()

	err := ReadLines(path, s.ChunkSize, func(line []byte) error {
		s.processLine(line, acc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return acc.result, nil
}

// accumulator threads the mutable sets and counters through the line loop.
type accumulator struct {
	result       *models.AuditResult
	createdSeen  map[string]bool
	modifiedSeen map[string]bool
	readSeen     map[string]bool
}

func newAccumulator() *accumulator {
	return &accumulator{
		result:       &models.AuditResult{},
		createdSeen:  map[string]bool{},
		modifiedSeen: map[string]bool{},
		readSeen:     map[string]bool{},
	}
}

func (s *Scanner) processLine(line []byte, acc *accumulator) {
	if len(line) == 0 {
		return
	}

	var entry transcriptLine
	if err := json.Unmarshal(line, &entry); err != nil {
		return
	}
	if entry.Type != "assistant" || entry.Message == nil {
		return
	}

	var blocks []contentBlock
	if err := json.Unmarshal(entry.Message.Content, &blocks); err != nil {
		// Content that is not an array of blocks carries no tool calls.
		return
	}

	ts := parseTimestamp(entry.Timestamp)

	for _, block := range blocks {
		if block.Type != "tool_use" {
			continue
		}
		acc.result.ToolCalls++
		s.classifyTool(block, ts, acc)
	}
}

func (s *Scanner) classifyTool(block contentBlock, ts time.Time, acc *accumulator) {
	var input toolInput
	_ = json.Unmarshal(block.Input, &input)

	r := acc.result

	switch block.Name {
	case "Write":
		path := s.shortenPath(input.FilePath)
		if path != "" && !acc.createdSeen[path] {
			acc.createdSeen[path] = true
			r.FilesCreated = append(r.FilesCreated, path)
		}
		r.Actions = append(r.Actions, models.ActionRecord{
			Timestamp: ts, Kind: models.ActionCreate,
			Detail: "Created " + path,
		})

	case "Edit":
		path := s.shortenPath(input.FilePath)
		if path != "" && !acc.modifiedSeen[path] {
			acc.modifiedSeen[path] = true
			r.FilesModified = append(r.FilesModified, path)
		}
		r.Actions = append(r.Actions, models.ActionRecord{
			Timestamp: ts, Kind: models.ActionModify,
			Detail: "Modified " + path,
		})

	case "Read":
		// Read events are high-volume and low-signal: tracked in the
		// file set, never in the timeline.
		path := s.shortenPath(input.FilePath)
		if path != "" && !acc.readSeen[path] {
			acc.readSeen[path] = true
			r.FilesRead = append(r.FilesRead, path)
		}

	case "Bash":
		s.classifyBash(input, ts, acc)

	case "Task":
		detail := input.Description
		if detail == "" {
			detail = input.SubagentType
		}
		if detail == "" {
			detail = "agent"
		}
		r.Actions = append(r.Actions, models.ActionRecord{
			Timestamp: ts, Kind: models.ActionTask,
			Detail: "Spawned subagent: " + detail,
		})

	default:
		if suppressedTools[block.Name] || deniedTools[block.Name] {
			return
		}
		r.Actions = append(r.Actions, models.ActionRecord{
			Timestamp: ts, Kind: models.ActionOther,
			Detail: fmt.Sprintf("%s: %s", block.Name, truncate(string(block.Input), otherDetailMax)),
		})
	}
}

func (s *Scanner) classifyBash(input toolInput, ts time.Time, acc *accumulator) {
	r := acc.result
	cmd := input.Command

	for _, label := range MatchRisks(cmd) {
		r.RiskFlags = append(r.RiskFlags, models.RiskFlag{
			Timestamp: ts, Label: label, Command: truncate(cmd, bashDetailMax),
		})
	}

	// Git operations are recorded as git events, not plain shell commands.
	switch {
	case gitCommitRe.MatchString(cmd):
		r.GitCommits = append(r.GitCommits, models.GitCommit{Timestamp: ts, Command: cmd})
		r.Actions = append(r.Actions, models.ActionRecord{
			Timestamp: ts, Kind: models.ActionGit, Detail: "Git commit",
		})
	case gitPushRe.MatchString(cmd):
		r.Actions = append(r.Actions, models.ActionRecord{
			Timestamp: ts, Kind: models.ActionGit,
			Detail: "Git push: " + truncate(cmd, bashDetailMax),
		})
	default:
		r.BashCommands = append(r.BashCommands, models.BashCommand{
			Timestamp: ts, Command: cmd, Description: input.Description,
		})
	}

	trimmed := strings.TrimSpace(cmd)
	if len(trimmed) <= minBashLen || noisyPrograms[firstWord(trimmed)] {
		return
	}

	detail := input.Description
	if detail == "" {
		detail = truncate(trimmed, bashDetailMax)
	}
	r.Actions = append(r.Actions, models.ActionRecord{
		Timestamp: ts, Kind: models.ActionBash, Detail: detail,
	})
}

// shortenPath replaces the home directory prefix with "~". Set membership is
// computed on the shortened form, so repeated writes to one absolute path
// collapse to a single entry.
func (s *Scanner) shortenPath(path string) string {
	if path == "" || s.Home == "" {
		return path
	}
	if path == s.Home {
		return "~"
	}
	if strings.HasPrefix(path, s.Home+string(filepath.Separator)) {
		return "~" + path[len(s.Home):]
	}
	return path
}

func firstWord(s string) string {
	if idx := strings.IndexAny(s, " \t"); idx >= 0 {
		return s[:idx]
	}
	return s
}

// truncate caps s at max runes, appending an ellipsis marker when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// parseTimestamp parses an ISO 8601 timestamp, falling back to zero time.
func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Time{}
}
