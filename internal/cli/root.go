// Package cli implements the ccaudit command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var (
	flagDate    string
	flagToday   bool
	flagAll     bool
	flagRecent  int
	flagJSON    bool
	flagYAML    bool
	flagNoColor bool
	flagPick    bool
	flagDir     string
)

var rootCmd = &cobra.Command{
	Use:   "ccaudit",
	Short: "Audit trail for Claude Code sessions",
	Long: `ccaudit reads the JSONL transcripts Claude Code writes under
~/.claude/projects and renders an audit trail of what each session did:
files created and modified, shell commands run, git operations, subagent
spawns, and commands matching known risk patterns.

By default the most recent session is audited. Use --all, --date, or
--today to widen the selection, and --json or --yaml for structured output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit(auditOptions{
			date:    flagDate,
			today:   flagToday,
			all:     flagAll,
			recent:  flagRecent,
			json:    flagJSON,
			yaml:    flagYAML,
			noColor: flagNoColor,
			pick:    flagPick,
			dir:     flagDir,
		}, cmd.OutOrStdout())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ccaudit %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagDate, "date", "", "audit sessions started on this local date (YYYY-MM-DD)")
	rootCmd.Flags().BoolVar(&flagToday, "today", false, "audit sessions started today")
	rootCmd.Flags().BoolVar(&flagAll, "all", false, "audit every discovered session")
	rootCmd.Flags().IntVarP(&flagRecent, "recent", "n", 0, "audit the N most recent sessions (default 1)")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "emit a structured JSON report")
	rootCmd.Flags().BoolVar(&flagYAML, "yaml", false, "emit a structured YAML report")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable ANSI colors in the report")
	rootCmd.Flags().BoolVar(&flagPick, "pick", false, "pick a session interactively")
	rootCmd.Flags().StringVar(&flagDir, "projects-dir", "", "override the projects directory to scan")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
