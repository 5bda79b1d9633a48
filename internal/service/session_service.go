package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/repository"
	"alcyxob/trainer-scheduler/internal/schedule"
)

// SessionService is the trainer-facing side of the scheduler. Every call is
// scoped to the trainer that owns the sessions.
type SessionService interface {
	CreateRecurring(ctx context.Context, trainerID string, req schedule.RecurrenceRequest) ([]domain.Session, error)
	// List sweeps first when the cleanup policy is enabled and reports how
	// many sessions the sweep removed.
	List(ctx context.Context, trainerID string) (entries []schedule.Entry, removed int, err error)
	Start(ctx context.Context, trainerID, sessionID string) (*schedule.Entry, error)
	End(ctx context.Context, trainerID, sessionID string) (*schedule.Entry, error)
	Delete(ctx context.Context, trainerID, sessionID string) error
	// Calendar projects the trainer's sessions, leaving out the ones that
	// ran out their time without being started.
	Calendar(ctx context.Context, state schedule.ViewState) (schedule.View, error)
	Stats(ctx context.Context, trainerID string) (schedule.Stats, error)
	// Sweep deletes the trainer's sessions the cleanup policy selects.
	Sweep(ctx context.Context, trainerID string) (int, error)
	// Today is the current date in the scheduler's zone.
	Today() domain.Date
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	policy      schedule.CleanupPolicy // decides what Sweep removes
	loc         *time.Location         // zone session wall-clock times are read in
	now         func() time.Time       // overridden in tests
	logger      *zap.Logger
}

// NewSessionService creates a SessionService. Session wall-clock times are
// read in loc.
func NewSessionService(sessionRepo repository.SessionRepository, policy schedule.CleanupPolicy, loc *time.Location, logger *zap.Logger) SessionService {
	if loc == nil {
		loc = time.Local
	}
	return &sessionService{
		sessionRepo: sessionRepo,
		policy:      policy,
		loc:         loc,
		now:         time.Now,
		logger:      logger,
	}
}

// clock is the current instant in the scheduler's zone.
func (s *sessionService) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *sessionService) Today() domain.Date {
	return domain.DateOf(s.clock())
}

// CreateRecurring expands req and stores every occurrence in one batch.
// Nothing is stored when the request is invalid.
func (s *sessionService) CreateRecurring(ctx context.Context, trainerID string, req schedule.RecurrenceRequest) ([]domain.Session, error) {
	sessions, err := schedule.Expand(req)
	if err != nil {
		return nil, err
	}

	created, err := s.sessionRepo.CreateMany(ctx, trainerID, sessions)
	if err != nil {
		return nil, &StoreError{Op: "create sessions", Err: err}
	}

	s.logger.Info("Recurring sessions created",
		zap.String("trainer_id", trainerID),
		zap.Int("count", len(created)),
		zap.Stringer("from", req.StartDate),
		zap.Stringer("to", req.EndDate))
	return created, nil
}

func (s *sessionService) List(ctx context.Context, trainerID string) ([]schedule.Entry, int, error) {
	removed, err := s.Sweep(ctx, trainerID)
	if err != nil {
		return nil, 0, err
	}

	sessions, err := s.list(ctx, trainerID)
	if err != nil {
		return nil, 0, err
	}
	return schedule.ClassifyAll(sessions, s.clock()), removed, nil
}

func (s *sessionService) list(ctx context.Context, trainerID string) ([]domain.Session, error) {
	sessions, err := s.sessionRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, &StoreError{Op: "list sessions", Err: err}
	}
	return sessions, nil
}

func (s *sessionService) Start(ctx context.Context, trainerID, sessionID string) (*schedule.Entry, error) {
	return s.transition(ctx, trainerID, sessionID, schedule.ActionStart)
}

func (s *sessionService) End(ctx context.Context, trainerID, sessionID string) (*schedule.Entry, error) {
	return s.transition(ctx, trainerID, sessionID, schedule.ActionEnd)
}

// transition applies action to one of the trainer's sessions and persists
// the resulting status.
func (s *sessionService) transition(ctx context.Context, trainerID, sessionID string, action schedule.Action) (*schedule.Entry, error) {
	session, err := s.owned(ctx, trainerID, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	target, err := schedule.Apply(*session, now, action)
	if err != nil {
		return nil, err
	}

	// The write only lands if the stored status is still the one Apply saw.
	from := session.StoredStatus()
	if err := s.sessionRepo.UpdateStatus(ctx, sessionID, trainerID, from, target); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrSessionNotFound
		case errors.Is(err, repository.ErrStatusChanged):
			return nil, &schedule.TransitionError{From: from, Action: action, Reason: "session status changed concurrently"}
		}
		return nil, &StoreError{Op: "update session status", Err: err}
	}

	session.Status = target
	entry := schedule.Classify(*session, now)
	s.logger.Info("Session status changed",
		zap.String("trainer_id", trainerID),
		zap.String("session_id", sessionID),
		zap.String("status", string(target)))
	return &entry, nil
}

// owned loads a session and hides it unless trainerID owns it.
func (s *sessionService) owned(ctx context.Context, trainerID, sessionID string) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, &StoreError{Op: "get session", Err: err}
	}
	if session.TrainerID != trainerID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session. Another trainer's session reads as not found.
func (s *sessionService) Delete(ctx context.Context, trainerID, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return &StoreError{Op: "delete session", Err: err}
	}
	return nil
}

func (s *sessionService) Calendar(ctx context.Context, state schedule.ViewState) (schedule.View, error) {
	sessions, err := s.list(ctx, state.TrainerID)
	if err != nil {
		return schedule.View{}, err
	}
	now := s.clock()
	return project(schedule.ExcludeTimeCompleted(sessions, now), state, now)
}

// project fills in a missing reference date with today.
func project(sessions []domain.Session, state schedule.ViewState, now time.Time) (schedule.View, error) {
	ref := state.Date
	if ref.IsZero() {
		ref = domain.DateOf(now)
	}
	g := state.Granularity
	if g == "" {
		g = schedule.Month
	}
	return schedule.Project(sessions, ref, g, now)
}

// Stats counts the trainer's sessions by status as of now.
func (s *sessionService) Stats(ctx context.Context, trainerID string) (schedule.Stats, error) {
	sessions, err := s.list(ctx, trainerID)
	if err != nil {
		return schedule.Stats{}, err
	}
	return schedule.Summarize(sessions, s.clock()), nil
}

// Sweep is a no-op while the cleanup policy is disabled. Failed deletes are
// logged and skipped so one bad row does not block the rest.
func (s *sessionService) Sweep(ctx context.Context, trainerID string) (int, error) {
	if !s.policy.Enabled {
		return 0, nil
	}

	sessions, err := s.list(ctx, trainerID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range s.policy.Sweep(sessions, s.clock()) {
		if err := s.sessionRepo.Delete(ctx, id, trainerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			s.logger.Warn("Failed to delete elapsed session",
				zap.String("trainer_id", trainerID),
				zap.String("session_id", id),
				zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("Removed elapsed sessions", zap.String("trainer_id", trainerID), zap.Int("count", removed))
	}
	return removed, nil
}
