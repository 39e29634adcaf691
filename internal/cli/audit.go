package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mklann/ccaudit/internal/config"
	"github.com/mklann/ccaudit/internal/report"
	"github.com/mklann/ccaudit/internal/session"
	"github.com/mklann/ccaudit/internal/transcript"
	"github.com/mklann/ccaudit/pkg/models"
)

// auditOptions carries the resolved selection and output flags.
type auditOptions struct {
	date    string
	today   bool
	all     bool
	recent  int
	json    bool
	yaml    bool
	noColor bool
	pick    bool
	dir     string
}

// runAudit is the main flow: discover sessions, select, scan, render.
func runAudit(opts auditOptions, out io.Writer) error {
	if opts.json && opts.yaml {
		return fmt.Errorf("--json and --yaml are mutually exclusive")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	projectsDir := opts.dir
	if projectsDir == "" {
		projectsDir = cfg.ProjectsDir
	}
	discoverer := session.NewDiscoverer(projectsDir)
	sessions, err := discoverer.Discover()
	if err != nil {
		return err
	}

	recent := opts.recent
	if recent == 0 {
		recent = cfg.Recent
	}
	selected := session.Select(sessions, session.Selection{
		Date:   opts.date,
		Today:  opts.today,
		All:    opts.all,
		Recent: recent,
	})

	if opts.pick && len(selected) > 0 {
		picked, err := pickSession(selected)
		if err != nil {
			return err
		}
		if picked == nil {
			return nil // cancelled
		}
		selected = []models.Session{*picked}
	}

	if len(selected) == 0 {
		fmt.Fprintln(out, "No sessions found for the given selection.")
		return nil
	}

	scanner := transcript.NewScanner()
	var audits []report.SessionAudit
	totals := &models.Totals{}

	for _, s := range selected {
		result, err := scanner.Scan(s.FilePath)
		if err != nil {
			// An unreadable transcript skips that session only.
			fmt.Fprintf(os.Stderr, "ccaudit: skipping %s: %v\n", s.FilePath, err)
			continue
		}
		totals.Add(result)
		audits = append(audits, report.SessionAudit{Session: s, Result: result})
	}

	switch {
	case opts.json:
		return report.WriteJSON(out, report.BuildDocument(audits, *totals, cfg.TimelineCap))
	case opts.yaml:
		return report.WriteYAML(out, report.BuildDocument(audits, *totals, cfg.TimelineCap))
	default:
		color := cfg.Color && !opts.noColor
		renderer := report.NewRenderer(out, color, cfg.TimelineCap, cfg.FilesCap)
		for _, sa := range audits {
			renderer.Session(sa)
		}
		renderer.Totals(*totals)
		return nil
	}
}
