package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/repository"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository returns a repository.SessionRepository backed by sqlite.
func NewSessionRepository(db *gorm.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (m sessionModel) toDomain() (domain.Session, error) {
	date, err := domain.ParseDate(m.SessionDate)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session %s: %w", m.ID, err)
	}
	tod, err := domain.ParseTimeOfDay(m.SessionTime)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session %s: %w", m.ID, err)
	}
	var raw string
	if m.Status != nil {
		raw = *m.Status
	}
	status, err := domain.ParseSessionStatus(raw)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session %s: %w", m.ID, err)
	}
	if m.Duration <= 0 {
		return domain.Session{}, fmt.Errorf("session %s: non-positive duration %d", m.ID, m.Duration)
	}
	return domain.Session{
		ID:              m.ID,
		TrainerID:       m.TrainerID,
		Title:           m.Title,
		ClientName:      m.ClientName,
		SessionType:     m.SessionType,
		Description:     m.Description,
		Date:            date,
		Time:            tod,
		DurationMinutes: m.Duration,
		Status:          status,
		CreatedAt:       m.CreatedAt,
	}, nil
}

func statusColumn(st domain.SessionStatus) *string {
	if st == "" || st == domain.SessionScheduled {
		return nil
	}
	s := string(st)
	return &s
}

func (r *sessionRepository) CreateMany(ctx context.Context, trainerID string, sessions []domain.Session) ([]domain.Session, error) {
	if trainerID == "" || len(sessions) == 0 {
		return nil, errors.New("trainer ID and sessions are required")
	}

	now := time.Now().UTC()
	models := make([]sessionModel, len(sessions))
	created := make([]domain.Session, len(sessions))
	for i, s := range sessions {
		models[i] = sessionModel{
			ID:          uuid.NewString(),
			TrainerID:   trainerID,
			Title:       s.Title,
			ClientName:  s.ClientName,
			SessionDate: s.Date.String(),
			SessionTime: s.Time.String(),
			Duration:    s.DurationMinutes,
			SessionType: s.SessionType,
			Description: s.Description,
			Status:      statusColumn(s.StoredStatus()),
			CreatedAt:   now,
		}
		created[i] = s
		created[i].ID = models[i].ID
		created[i].TrainerID = trainerID
		created[i].Status = s.StoredStatus()
		created[i].CreatedAt = now
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&models, 100).Error
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *sessionRepository) ListByTrainer(ctx context.Context, trainerID string) ([]domain.Session, error) {
	var models []sessionModel
	err := r.db.WithContext(ctx).
		Where("trainer_id = ?", trainerID).
		Order("session_date, session_time").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.Session, 0, len(models))
	for _, m := range models {
		s, err := m.toDomain()
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var m sessionModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	s, err := m.toDomain()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) UpdateStatus(ctx context.Context, id, trainerID string, from, to domain.SessionStatus) error {
	var value any = gorm.Expr("NULL")
	if col := statusColumn(to); col != nil {
		value = *col
	}
	q := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("id = ? AND trainer_id = ?", id, trainerID)
	if col := statusColumn(from); col != nil {
		q = q.Where("status = ?", *col)
	} else {
		q = q.Where("status IS NULL")
	}
	result := q.Update("status", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&sessionModel{}).
			Where("id = ? AND trainer_id = ?", id, trainerID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return repository.ErrStatusChanged
		}
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id, trainerID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND trainer_id = ?", id, trainerID).
		Delete(&sessionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) CountByTrainer(ctx context.Context, trainerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&sessionModel{}).Where("trainer_id = ?", trainerID).Count(&n).Error
	return n, err
}
