package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mklann/ccaudit/pkg/models"
)

// styleSet holds the lipgloss styles for human-mode output.
type styleSet struct {
	header  lipgloss.Style
	section lipgloss.Style
	risk    lipgloss.Style
	dim     lipgloss.Style
	summary lipgloss.Style
}

func newStyles(color bool) styleSet {
	if !color {
		plain := lipgloss.NewStyle()
		return styleSet{header: plain, section: plain, risk: plain, dim: plain, summary: plain}
	}
	return styleSet{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		risk:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		summary: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
	}
}

// Renderer writes the human-readable audit report.
type Renderer struct {
	w           io.Writer
	styles      styleSet
	timelineCap int
	filesCap    int
}

// NewRenderer creates a Renderer writing to w. Caps bound the timeline and
// file listings per session.
func NewRenderer(w io.Writer, color bool, timelineCap, filesCap int) *Renderer {
	return &Renderer{
		w:           w,
		styles:      newStyles(color),
		timelineCap: timelineCap,
		filesCap:    filesCap,
	}
}

// Session renders one session's audit block.
func (r *Renderer) Session(sa SessionAudit) {
	s, res := sa.Session, sa.Result

	title := fmt.Sprintf("%s — %s", s.Project, s.StartedAt.Local().Format("2006-01-02 15:04"))
	if s.IsSubagent {
		title += " (subagent)"
	}
	fmt.Fprintln(r.w, r.styles.header.Render(title))
	fmt.Fprintf(r.w, "  %s\n", r.styles.dim.Render(fmt.Sprintf(
		"%s · %s · %s", s.FilePath, formatDuration(s.DurationMinutes()), formatBytes(s.SizeBytes))))

	fmt.Fprintf(r.w, "  %d tool calls · %d created · %d modified · %d read · %d bash · %d commits\n",
		res.ToolCalls, len(res.FilesCreated), len(res.FilesModified),
		len(res.FilesRead), len(res.BashCommands), len(res.GitCommits))

	r.timeline(res.Actions)
	r.riskFlags(res.RiskFlags)
	r.fileList("Files created", res.FilesCreated)
	r.fileList("Files modified", res.FilesModified)
	fmt.Fprintln(r.w)
}

func (r *Renderer) timeline(actions []models.ActionRecord) {
	deduped := DedupTimeline(actions)
	if len(deduped) == 0 {
		return
	}

	fmt.Fprintln(r.w, r.styles.section.Render("  Timeline"))
	shown := deduped
	if len(shown) > r.timelineCap {
		shown = shown[:r.timelineCap]
	}
	for _, a := range shown {
		ts := "--:--"
		if !a.Timestamp.IsZero() {
			ts = a.Timestamp.Local().Format("15:04")
		}
		fmt.Fprintf(r.w, "    %s  %-6s %s\n", r.styles.dim.Render(ts), a.Kind, a.Detail)
	}
	if more := len(deduped) - len(shown); more > 0 {
		fmt.Fprintf(r.w, "    %s\n", r.styles.dim.Render(fmt.Sprintf("... and %d more", more)))
	}
}

func (r *Renderer) riskFlags(flags []models.RiskFlag) {
	if len(flags) == 0 {
		return
	}
	fmt.Fprintln(r.w, r.styles.risk.Render("  Risk flags"))
	for _, f := range flags {
		fmt.Fprintf(r.w, "    %s %s\n", r.styles.risk.Render("!"), f.Label)
		fmt.Fprintf(r.w, "      %s\n", r.styles.dim.Render(f.Command))
	}
}

func (r *Renderer) fileList(title string, files []string) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintln(r.w, r.styles.section.Render("  "+title))
	shown := files
	if len(shown) > r.filesCap {
		shown = shown[:r.filesCap]
	}
	for _, f := range shown {
		fmt.Fprintf(r.w, "    %s\n", f)
	}
	if more := len(files) - len(shown); more > 0 {
		fmt.Fprintf(r.w, "    %s\n", r.styles.dim.Render(fmt.Sprintf("... and %d more", more)))
	}
}

// Totals renders the cross-session totals block and the shareable one-line
// summary.
func (r *Renderer) Totals(t models.Totals) {
	fmt.Fprintln(r.w, r.styles.section.Render("Totals"))
	fmt.Fprintf(r.w, "  Sessions:       %d\n", t.Sessions)
	fmt.Fprintf(r.w, "  Tool calls:     %d\n", t.ToolCalls)
	fmt.Fprintf(r.w, "  Files created:  %d\n", t.FilesCreated)
	fmt.Fprintf(r.w, "  Files modified: %d\n", t.FilesModified)
	fmt.Fprintf(r.w, "  Bash commands:  %d\n", t.BashCommands)
	fmt.Fprintf(r.w, "  Git commits:    %d\n", t.GitCommits)
	fmt.Fprintf(r.w, "  Risk flags:     %d\n", t.RiskFlags)
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.styles.summary.Render(SummaryLine(t)))
}

// SummaryLine builds the shareable one-line summary for a batch of sessions.
func SummaryLine(t models.Totals) string {
	parts := []string{
		fmt.Sprintf("%d %s", t.Sessions, plural(t.Sessions, "session", "sessions")),
		fmt.Sprintf("%d tool calls", t.ToolCalls),
		fmt.Sprintf("%d files created", t.FilesCreated),
		fmt.Sprintf("%d modified", t.FilesModified),
		fmt.Sprintf("%d %s", t.GitCommits, plural(t.GitCommits, "commit", "commits")),
	}
	if t.RiskFlags > 0 {
		parts = append(parts, fmt.Sprintf("%d risk %s", t.RiskFlags, plural(t.RiskFlags, "flag", "flags")))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatDuration renders whole minutes as "Xh Ym" or "Ym".
func formatDuration(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
