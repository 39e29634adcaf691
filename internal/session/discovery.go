// Package session discovers Claude Code transcript files on disk and selects
// which of them an audit run should cover.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mklann/ccaudit/internal/transcript"
	"github.com/mklann/ccaudit/pkg/models"
)

const (
	// Sample sizes for the cheap head/tail timestamp probe. Large enough to
	// cover one record at each end of a typical transcript.
	headSampleBytes = 4 * 1024
	tailSampleBytes = 16 * 1024

	subagentsDirName = "subagents"
)

// DefaultProjectsDir returns ~/.claude/projects, where Claude Code stores
// one directory per project containing JSONL session transcripts.
func DefaultProjectsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".claude", "projects")
	}
	return filepath.Join(home, ".claude", "projects")
}

// Discoverer finds session transcript files under a projects directory.
type Discoverer struct {
	ProjectsDir string
}

// NewDiscoverer creates a Discoverer rooted at projectsDir, falling back to
// the default location when empty.
func NewDiscoverer(projectsDir string) *Discoverer {
	if projectsDir == "" {
		projectsDir = DefaultProjectsDir()
	}
	return &Discoverer{ProjectsDir: projectsDir}
}

// Discover walks every project directory and returns all sessions with a
// parseable start timestamp, sorted ascending by start time. An unreadable
// projects root is the only fatal error; individual files that cannot be
// probed are skipped.
func (d *Discoverer) Discover() ([]models.Session, error) {
	entries, err := os.ReadDir(d.ProjectsDir)
	if err != nil {
		return nil, fmt.Errorf("reading projects directory %s: %w", d.ProjectsDir, err)
	}

	var sessions []models.Session
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		projDir := filepath.Join(d.ProjectsDir, entry.Name())
		project := projectName(entry.Name())

		sessions = append(sessions, d.collect(projDir, project, false)...)
		sessions = append(sessions, d.collect(filepath.Join(projDir, subagentsDirName), project, true)...)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
	return sessions, nil
}

// collect probes every .jsonl file directly under dir.
func (d *Discoverer) collect(dir, project string, subagent bool) []models.Session {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var sessions []models.Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		s, ok := probe(path, project, subagent)
		if ok {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

// edgeRecord is the subset of a transcript record used for timestamps.
// Some records carry the timestamp under a nested snapshot field.
type edgeRecord struct {
	Timestamp string `json:"timestamp"`
	Snapshot  struct {
		Timestamp string `json:"timestamp"`
	} `json:"snapshot"`
}

// probe extracts a session's metadata from its first and last records
// without reading the whole file. Sessions whose first record has no
// parseable timestamp cannot be sorted or filtered and are dropped.
func probe(path, project string, subagent bool) (models.Session, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return models.Session{}, false
	}

	sample, err := transcript.SampleEdges(path, headSampleBytes, tailSampleBytes)
	if err != nil {
		return models.Session{}, false
	}

	start := edgeTimestamp(sample.First)
	if start.IsZero() {
		return models.Session{}, false
	}
	end := edgeTimestamp(sample.Last)
	if end.IsZero() {
		end = start
	}

	return models.Session{
		FilePath:   path,
		Project:    project,
		StartedAt:  start,
		EndedAt:    end,
		SizeBytes:  info.Size(),
		IsSubagent: subagent,
	}, true
}

func edgeTimestamp(line string) time.Time {
	var rec edgeRecord
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return time.Time{}
	}
	raw := rec.Timestamp
	if raw == "" {
		raw = rec.Snapshot.Timestamp
	}
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

// projectName derives a display name from an encoded project directory name,
// where the working directory's path separators were replaced with dashes
// (e.g. "-Users-x-myproj" -> "myproj").
func projectName(dirName string) string {
	trimmed := strings.Trim(dirName, "-")
	if idx := strings.LastIndex(trimmed, "-"); idx >= 0 && idx+1 < len(trimmed) {
		return trimmed[idx+1:]
	}
	if trimmed == "" {
		return dirName
	}
	return trimmed
}
