package schedule

import (
	"errors"
	"fmt"

	"alcyxob/trainer-scheduler/internal/domain"
)

var (
	ErrInvalidRequest    = errors.New("invalid recurrence request")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// ValidationError reports a malformed recurrence request. It is raised before
// anything reaches the store.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// TransitionError reports a start/end request the Status Engine rejected.
type TransitionError struct {
	From   domain.SessionStatus
	Action Action
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s session in status %q: %s", e.Action, e.From, e.Reason)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}
