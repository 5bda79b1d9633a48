package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/repository"
	"alcyxob/trainer-scheduler/internal/schedule"
)

// AdminService is the read-only oversight side. It never sweeps and never
// hides sessions from the calendar.
type AdminService interface {
	ListTrainers(ctx context.Context, search string) ([]domain.TrainerSummary, error)
	TrainerSessions(ctx context.Context, trainerID string) ([]schedule.Entry, error)
	TrainerCalendar(ctx context.Context, state schedule.ViewState) (schedule.View, error)
	TrainerStats(ctx context.Context, trainerID string) (schedule.Stats, error)
	Today() domain.Date
}

type adminService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	loc         *time.Location   // zone session wall-clock times are read in
	now         func() time.Time // overridden in tests
}

// NewAdminService creates an AdminService reading session times in loc.
func NewAdminService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, loc *time.Location) AdminService {
	if loc == nil {
		loc = time.Local
	}
	return &adminService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		loc:         loc,
		now:         time.Now,
	}
}

func (s *adminService) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *adminService) Today() domain.Date {
	return domain.DateOf(s.clock())
}

// ListTrainers returns every matching trainer with its session count.
func (s *adminService) ListTrainers(ctx context.Context, search string) ([]domain.TrainerSummary, error) {
	trainers, err := s.userRepo.ListTrainers(ctx, search)
	if err != nil {
		return nil, &StoreError{Op: "list trainers", Err: err}
	}

	summaries := make([]domain.TrainerSummary, 0, len(trainers))
	for _, t := range trainers {
		count, err := s.sessionRepo.CountByTrainer(ctx, t.ID)
		if err != nil {
			return nil, &StoreError{Op: "count sessions", Err: err}
		}
		summaries = append(summaries, domain.TrainerSummary{
			ID:           t.ID,
			Name:         t.Name,
			Email:        t.Email,
			Username:     t.Username,
			CreatedAt:    t.CreatedAt,
			SessionCount: count,
		})
	}
	return summaries, nil
}

func (s *adminService) TrainerSessions(ctx context.Context, trainerID string) ([]schedule.Entry, error) {
	sessions, err := s.trainerSessions(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	return schedule.ClassifyAll(sessions, s.clock()), nil
}

func (s *adminService) TrainerCalendar(ctx context.Context, state schedule.ViewState) (schedule.View, error) {
	sessions, err := s.trainerSessions(ctx, state.TrainerID)
	if err != nil {
		return schedule.View{}, err
	}
	return project(sessions, state, s.clock())
}

func (s *adminService) TrainerStats(ctx context.Context, trainerID string) (schedule.Stats, error) {
	sessions, err := s.trainerSessions(ctx, trainerID)
	if err != nil {
		return schedule.Stats{}, err
	}
	return schedule.Summarize(sessions, s.clock()), nil
}

// trainerSessions checks that trainerID names a trainer before listing.
func (s *adminService) trainerSessions(ctx context.Context, trainerID string) ([]domain.Session, error) {
	user, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, &StoreError{Op: "get trainer", Err: err}
	}
	if !user.IsTrainer() {
		return nil, ErrTrainerNotFound
	}

	sessions, err := s.sessionRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, &StoreError{Op: "list sessions", Err: err}
	}
	return sessions, nil
}
