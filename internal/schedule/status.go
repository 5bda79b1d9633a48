package schedule

import (
	"time"

	"alcyxob/trainer-scheduler/internal/domain"
)

// EffectiveStatus is the stored status combined with the wall clock.
// It is never persisted.
type EffectiveStatus string

const (
	EffectiveScheduled     EffectiveStatus = "scheduled"
	EffectiveStarted       EffectiveStatus = "started"
	EffectiveCompleted     EffectiveStatus = "completed"
	EffectiveTimeCompleted EffectiveStatus = "timeCompleted"
)

// Phase places now relative to the session interval [start, end).
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseOngoing  Phase = "ongoing"
	PhaseElapsed  Phase = "elapsed"
)

// Action is a manual status change requested by a trainer.
type Action string

const (
	ActionStart Action = "start"
	ActionEnd   Action = "end"
)

// ElapsedAt reports whether now is strictly after the session's end.
func ElapsedAt(s domain.Session, now time.Time) bool {
	return now.After(s.EndsAt(now.Location()))
}

// EffectiveStatusAt derives the display status of s at now.
func EffectiveStatusAt(s domain.Session, now time.Time) EffectiveStatus {
	switch s.StoredStatus() {
	case domain.SessionStarted:
		return EffectiveStarted
	case domain.SessionCompleted:
		return EffectiveCompleted
	}
	if ElapsedAt(s, now) {
		return EffectiveTimeCompleted
	}
	return EffectiveScheduled
}

// PhaseAt classifies now against [start, end). now == end is elapsed.
func PhaseAt(s domain.Session, now time.Time) Phase {
	loc := now.Location()
	switch {
	case now.Before(s.StartsAt(loc)):
		return PhaseUpcoming
	case now.Before(s.EndsAt(loc)):
		return PhaseOngoing
	default:
		return PhaseElapsed
	}
}

// CanTransition reports whether the stored status of s may move to target at now.
func CanTransition(s domain.Session, now time.Time, target domain.SessionStatus) bool {
	return checkTransition(s, now, target) == ""
}

// Apply validates action against s at now and returns the status to store.
func Apply(s domain.Session, now time.Time, action Action) (domain.SessionStatus, error) {
	var target domain.SessionStatus
	switch action {
	case ActionStart:
		target = domain.SessionStarted
	case ActionEnd:
		target = domain.SessionCompleted
	default:
		return "", &TransitionError{From: s.StoredStatus(), Action: action, Reason: "unknown action"}
	}
	if reason := checkTransition(s, now, target); reason != "" {
		return "", &TransitionError{From: s.StoredStatus(), Action: action, Reason: reason}
	}
	return target, nil
}

// checkTransition returns an empty string when the transition is legal,
// otherwise the reason it is not.
func checkTransition(s domain.Session, now time.Time, target domain.SessionStatus) string {
	from := s.StoredStatus()
	if from == domain.SessionCompleted {
		return "session is already completed"
	}
	switch target {
	case domain.SessionStarted:
		if from == domain.SessionStarted {
			return "session is already started"
		}
		if !now.Before(s.EndsAt(now.Location())) {
			return "session time has already passed"
		}
		return ""
	case domain.SessionCompleted:
		if from != domain.SessionStarted {
			return "session has not been started"
		}
		return ""
	}
	return "sessions cannot return to " + string(target)
}
