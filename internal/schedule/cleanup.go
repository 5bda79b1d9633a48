package schedule

import (
	"time"

	"alcyxob/trainer-scheduler/internal/domain"
)

// CleanupPolicy decides which sessions are removed automatically.
// A disabled policy only recolors elapsed sessions and never deletes.
type CleanupPolicy struct {
	Enabled bool
}

// Eligible reports whether s may be auto-deleted at now: its interval has fully
// elapsed and the operator never started (and so never completed) it.
func Eligible(s domain.Session, now time.Time) bool {
	return s.StoredStatus() == domain.SessionScheduled && ElapsedAt(s, now)
}

// Sweep returns the ids of sessions eligible for deletion, in input order.
// Sessions without an id are skipped. A disabled policy returns nil.
func (p CleanupPolicy) Sweep(sessions []domain.Session, now time.Time) []string {
	if !p.Enabled {
		return nil
	}
	var ids []string
	for _, s := range sessions {
		if s.ID != "" && Eligible(s, now) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
