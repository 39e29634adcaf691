package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mklann/ccaudit/pkg/models"
)

func renderPlain(t *testing.T, sa SessionAudit, timelineCap, filesCap int) string {
	t.Helper()
	var buf bytes.Buffer
	r := NewRenderer(&buf, false, timelineCap, filesCap)
	r.Session(sa)
	return buf.String()
}

func TestRenderer_SessionSections(t *testing.T) {
	out := renderPlain(t, sampleAudit(), 50, 20)

	for _, want := range []string{
		"myproj",
		"Timeline",
		"Created ~/a.go",
		"Git commit",
		"Risk flags",
		"Recursive delete (rm -rf)",
		"Files created",
		"~/a.go",
		"5 tool calls",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderer_TimelineCapShowsMoreMarker(t *testing.T) {
	sa := sampleAudit()
	sa.Result.Actions = nil
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		sa.Result.Actions = append(sa.Result.Actions, models.ActionRecord{
			Timestamp: start, Kind: models.ActionBash, Detail: fmt.Sprintf("command %d", i),
		})
	}

	out := renderPlain(t, sa, 3, 20)

	if !strings.Contains(out, "... and 7 more") {
		t.Errorf("expected capped timeline marker, got:\n%s", out)
	}
}

func TestRenderer_FilesCapShowsMoreMarker(t *testing.T) {
	sa := sampleAudit()
	sa.Result.FilesCreated = nil
	for i := 0; i < 25; i++ {
		sa.Result.FilesCreated = append(sa.Result.FilesCreated, fmt.Sprintf("~/f%02d.go", i))
	}

	out := renderPlain(t, sa, 50, 20)

	if !strings.Contains(out, "... and 5 more") {
		t.Errorf("expected capped file list marker, got:\n%s", out)
	}
}

func TestRenderer_SubagentMarker(t *testing.T) {
	sa := sampleAudit()
	sa.Session.IsSubagent = true

	out := renderPlain(t, sa, 50, 20)
	if !strings.Contains(out, "(subagent)") {
		t.Errorf("expected subagent marker:\n%s", out)
	}
}

func TestRenderer_Totals(t *testing.T) {
	totals := models.Totals{}
	totals.Add(sampleAudit().Result)

	var buf bytes.Buffer
	r := NewRenderer(&buf, false, 50, 20)
	r.Totals(totals)

	out := buf.String()
	if !strings.Contains(out, "Totals") || !strings.Contains(out, "Tool calls:     5") {
		t.Errorf("unexpected totals block:\n%s", out)
	}
	if !strings.Contains(out, SummaryLine(totals)) {
		t.Errorf("expected shareable summary line:\n%s", out)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 0m"},
		{95, "1h 35m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.minutes); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestHumanAndStructuredDurationsAgree(t *testing.T) {
	// The human hour/minute rendering and the exported minute count must
	// describe the same floored interval.
	sa := sampleAudit()
	export := ExportSession(sa, 50)

	human := formatDuration(sa.Session.DurationMinutes())
	if human != "1h 35m" || export.DurationMinutes != 95 {
		t.Errorf("duration mismatch: human %q, export %d", human, export.DurationMinutes)
	}
}
