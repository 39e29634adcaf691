package session

import (
	"time"

	"github.com/mklann/ccaudit/pkg/models"
)

// Selection describes which discovered sessions an audit run covers.
// Exactly one mode is effective: an explicit date (or today) wins over All,
// which wins over the default most-recent-N behavior.
type Selection struct {
	Date   string // local calendar date, YYYY-MM-DD
	Today  bool
	All    bool
	Recent int // most recent N non-subagent sessions; 0 means 1
}

// Select filters sessions (assumed sorted ascending by start time) down to
// the requested set, preserving order. Date filters and All include
// subagent sessions; the default most-recent selection excludes them.
func Select(sessions []models.Session, sel Selection) []models.Session {
	date := sel.Date
	if sel.Today && date == "" {
		date = time.Now().Local().Format("2006-01-02")
	}

	if date != "" {
		var out []models.Session
		for _, s := range sessions {
			if s.LocalDate() == date {
				out = append(out, s)
			}
		}
		return out
	}

	if sel.All {
		return sessions
	}

	n := sel.Recent
	if n <= 0 {
		n = 1
	}

	var primary []models.Session
	for _, s := range sessions {
		if !s.IsSubagent {
			primary = append(primary, s)
		}
	}
	if len(primary) > n {
		primary = primary[len(primary)-n:]
	}
	return primary
}
