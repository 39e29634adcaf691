// Package report renders audit results as a colorized terminal report or as
// a structured JSON/YAML document.
package report

import (
	"github.com/mklann/ccaudit/pkg/models"
)

// SessionAudit pairs a discovered session with its scan result.
type SessionAudit struct {
	Session models.Session
	Result  *models.AuditResult
}

// DedupTimeline collapses runs of consecutive actions with identical detail
// text into a single entry, preserving order. The transcript may repeat the
// same edit or command many times in a row; one entry carries the signal.
func DedupTimeline(actions []models.ActionRecord) []models.ActionRecord {
	var out []models.ActionRecord
	for _, a := range actions {
		if len(out) > 0 && out[len(out)-1].Detail == a.Detail {
			continue
		}
		out = append(out, a)
	}
	return out
}
