package models

import (
	"testing"
	"time"
)

func TestDurationMinutes_Floors(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"zero interval", start, 0},
		{"under a minute", start.Add(59 * time.Second), 0},
		{"exactly one minute", start.Add(time.Minute), 1},
		{"floors seconds", start.Add(95*time.Minute + 59*time.Second), 95},
		{"end before start", start.Add(-time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{StartedAt: start, EndedAt: tt.end}
			if got := s.DurationMinutes(); got != tt.want {
				t.Errorf("DurationMinutes = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotals_Add(t *testing.T) {
	var totals Totals

	totals.Add(&AuditResult{
		ToolCalls:     7,
		FilesCreated:  []string{"~/a.go", "~/b.go"},
		FilesModified: []string{"~/a.go"},
		BashCommands:  []BashCommand{{Command: "go test"}},
		GitCommits:    []GitCommit{{Command: "git commit"}},
		RiskFlags:     []RiskFlag{{Label: "Force push"}},
	})
	totals.Add(&AuditResult{ToolCalls: 3})

	if totals.Sessions != 2 || totals.ToolCalls != 10 {
		t.Errorf("unexpected session/tool totals: %+v", totals)
	}
	if totals.FilesCreated != 2 || totals.FilesModified != 1 {
		t.Errorf("unexpected file totals: %+v", totals)
	}
	if totals.BashCommands != 1 || totals.GitCommits != 1 || totals.RiskFlags != 1 {
		t.Errorf("unexpected command totals: %+v", totals)
	}
}
