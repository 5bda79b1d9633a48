package domain

import (
	"fmt"
	"strings"
	"time"
)

// SessionStatus is the operator-driven status that gets persisted.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled" // Default; stored as absent
	SessionStarted   SessionStatus = "started"
	SessionCompleted SessionStatus = "completed" // Terminal
)

// ParseSessionStatus normalizes a raw stored value. Empty means scheduled.
func ParseSessionStatus(raw string) (SessionStatus, error) {
	switch SessionStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SessionScheduled:
		return SessionScheduled, nil
	case SessionStarted:
		return SessionStarted, nil
	case SessionCompleted:
		return SessionCompleted, nil
	}
	return "", fmt.Errorf("unknown session status %q", raw)
}

// Session is one concrete occurrence of a training session.
// Everything but Status is immutable after creation.
type Session struct {
	ID              string        `json:"id"`
	TrainerID       string        `json:"trainer_id"`
	Title           string        `json:"title"`
	ClientName      string        `json:"client_name"`
	SessionType     string        `json:"session_type"`
	Description     string        `json:"description"`
	Date            Date          `json:"session_date"`
	Time            TimeOfDay     `json:"session_time"`
	DurationMinutes int           `json:"duration"`
	Status          SessionStatus `json:"status,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// StoredStatus treats an absent status as scheduled.
func (s Session) StoredStatus() SessionStatus {
	if s.Status == "" {
		return SessionScheduled
	}
	return s.Status
}

// StartsAt is the wall-clock start in loc.
func (s Session) StartsAt(loc *time.Location) time.Time {
	return s.Time.On(s.Date, loc)
}

// EndsAt is the exclusive end of [start, end).
func (s Session) EndsAt(loc *time.Location) time.Time {
	return s.StartsAt(loc).Add(time.Duration(s.DurationMinutes) * time.Minute)
}
