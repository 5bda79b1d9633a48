package schedule

import (
	"time"

	"alcyxob/trainer-scheduler/internal/domain"
)

// Stats are the dashboard counters.
type Stats struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Started   int `json:"started"`
	Completed int `json:"completed"`
}

// Summarize counts sessions at now. Upcoming means dated today or later, not
// completed, and not yet elapsed. Completed counts both stored completions
// and timeCompleted sessions.
func Summarize(sessions []domain.Session, now time.Time) Stats {
	today := domain.DateOf(now)
	st := Stats{Total: len(sessions)}
	for _, s := range sessions {
		switch EffectiveStatusAt(s, now) {
		case EffectiveCompleted, EffectiveTimeCompleted:
			st.Completed++
			continue
		case EffectiveStarted:
			st.Started++
		}
		if !s.Date.Before(today) && !ElapsedAt(s, now) {
			st.Upcoming++
		}
	}
	return st
}
