// Package config loads ccaudit settings from an optional .ccaudit.yaml file
// in the user's home directory, with sensible defaults when absent.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the tunable settings for an audit run. The detail truncation
// widths used by the classifier are deliberately not configurable.
type Config struct {
	// ProjectsDir is the root scanned for transcripts; empty means
	// ~/.claude/projects.
	ProjectsDir string
	// Recent is the default number of most-recent sessions to audit.
	Recent int
	// Color toggles ANSI styling in human-mode output.
	Color bool
	// TimelineCap limits how many timeline entries are rendered per session.
	TimelineCap int
	// FilesCap limits how many file paths are listed per section.
	FilesCap int
}

func defaults() *Config {
	return &Config{
		ProjectsDir: "",
		Recent:      1,
		Color:       true,
		TimelineCap: 50,
		FilesCap:    20,
	}
}

// Load reads .ccaudit.yaml from the home directory. A missing config file is
// not an error; defaults are returned.
func Load() (*Config, error) {
	cfg := defaults()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil
	}
	return loadFrom(home)
}

// loadFrom reads .ccaudit.yaml from dir. Split out for testing.
func loadFrom(dir string) (*Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetConfigName(".ccaudit")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("projects_dir", cfg.ProjectsDir)
	v.SetDefault("recent", cfg.Recent)
	v.SetDefault("color", cfg.Color)
	v.SetDefault("timeline_cap", cfg.TimelineCap)
	v.SetDefault("files_cap", cfg.FilesCap)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .ccaudit.yaml: %w", err)
	}

	cfg.ProjectsDir = v.GetString("projects_dir")
	cfg.Recent = v.GetInt("recent")
	cfg.Color = v.GetBool("color")
	cfg.TimelineCap = v.GetInt("timeline_cap")
	cfg.FilesCap = v.GetInt("files_cap")

	if cfg.Recent < 1 {
		cfg.Recent = 1
	}
	if cfg.TimelineCap < 1 {
		cfg.TimelineCap = defaults().TimelineCap
	}
	if cfg.FilesCap < 1 {
		cfg.FilesCap = defaults().FilesCap
	}
	return cfg, nil
}
