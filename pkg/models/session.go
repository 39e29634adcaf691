package models

import "time"

// Session describes one discovered transcript file before it is audited.
// Sessions are identified by file path and immutable once constructed.
type Session struct {
	FilePath   string    `json:"file_path"`
	Project    string    `json:"project"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	SizeBytes  int64     `json:"size_bytes"`
	IsSubagent bool      `json:"is_subagent"`
}

// DurationMinutes returns the session length in whole minutes, floored.
func (s Session) DurationMinutes() int {
	if s.StartedAt.IsZero() || s.EndedAt.IsZero() || s.EndedAt.Before(s.StartedAt) {
		return 0
	}
	return int(s.EndedAt.Sub(s.StartedAt).Milliseconds() / 60000)
}

// LocalDate returns the session's start date formatted as YYYY-MM-DD in
// local time. Date filtering compares against this value.
func (s Session) LocalDate() string {
	return s.StartedAt.Local().Format("2006-01-02")
}
