// Package schedule holds the session scheduling and status engine: recurrence
// expansion, status derivation, calendar projection and the cleanup policy.
//
// Every function here is pure over the snapshot it is given. Wall-clock
// values are interpreted in the location of the `now` argument.
package schedule

import (
	"strings"

	"alcyxob/trainer-scheduler/internal/domain"
)

// DefaultDurationMinutes is used when the end time is not after the start
// time. Ranges that cross midnight are not wrapped into the next day.
const DefaultDurationMinutes = 60

// RecurrenceRequest describes a block of sessions to create.
type RecurrenceRequest struct {
	StartDate   domain.Date
	EndDate     domain.Date // Inclusive
	StartTime   domain.TimeOfDay
	EndTime     domain.TimeOfDay
	Weekdays    []int // 0=Sunday..6=Saturday
	Title       string
	ClientName  string
	SessionType string
	Description string // Optional
}

// Validate returns the first problem found as a *ValidationError.
func (r RecurrenceRequest) Validate() error {
	switch {
	case r.StartDate.IsZero():
		return &ValidationError{Field: "start_date", Reason: "is required"}
	case r.EndDate.IsZero():
		return &ValidationError{Field: "end_date", Reason: "is required"}
	case r.StartDate.After(r.EndDate):
		return &ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	case len(r.Weekdays) == 0:
		return &ValidationError{Field: "weekdays", Reason: "select at least one day of the week"}
	case strings.TrimSpace(r.Title) == "":
		return &ValidationError{Field: "title", Reason: "is required"}
	case strings.TrimSpace(r.ClientName) == "":
		return &ValidationError{Field: "client_name", Reason: "is required"}
	case strings.TrimSpace(r.SessionType) == "":
		return &ValidationError{Field: "session_type", Reason: "is required"}
	}
	for _, wd := range r.Weekdays {
		if wd < 0 || wd > 6 {
			return &ValidationError{Field: "weekdays", Reason: "values must be between 0 (Sunday) and 6 (Saturday)"}
		}
	}
	return nil
}

// SessionDuration is the minutes from start to end, or DefaultDurationMinutes
// when end <= start.
func SessionDuration(start, end domain.TimeOfDay) int {
	d := end.Minutes() - start.Minutes()
	if d <= 0 {
		return DefaultDurationMinutes
	}
	return d
}

// Expand turns a request into one session per matching day in
// [StartDate, EndDate]. The returned sessions have no ID or TrainerID.
func Expand(req RecurrenceRequest) ([]domain.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var selected [7]bool
	for _, wd := range req.Weekdays {
		selected[wd] = true
	}

	duration := SessionDuration(req.StartTime, req.EndTime)
	title := strings.TrimSpace(req.Title)
	client := strings.TrimSpace(req.ClientName)
	sessionType := strings.TrimSpace(req.SessionType)
	description := strings.TrimSpace(req.Description)

	var sessions []domain.Session
	for day := req.StartDate; !day.After(req.EndDate); day = day.AddDays(1) {
		if !selected[day.Weekday()] {
			continue
		}
		sessions = append(sessions, domain.Session{
			Title:           title,
			ClientName:      client,
			SessionType:     sessionType,
			Description:     description,
			Date:            day,
			Time:            req.StartTime,
			DurationMinutes: duration,
			Status:          domain.SessionScheduled,
		})
	}
	return sessions, nil
}
