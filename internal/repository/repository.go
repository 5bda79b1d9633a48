package repository

import (
	"alcyxob/trainer-scheduler/internal/domain" // Import our defined domain models
	"context"                                   // Standard for request-scoped deadlines, cancellation signals, etc.
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
	// ErrStatusChanged means the session exists but no longer has the
	// expected status.
	ErrStatusChanged = RepositoryError("status changed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// ListTrainers returns trainers ordered by name. A non-empty search keeps
	// those whose name, username or email contains it (case-insensitive).
	ListTrainers(ctx context.Context, search string) ([]domain.User, error)
}

// SessionRepository is the session store. Identifiers are opaque strings
// assigned on creation.
type SessionRepository interface {
	// CreateMany stores all sessions for trainerID or none of them, and
	// returns them with ids assigned.
	CreateMany(ctx context.Context, trainerID string, sessions []domain.Session) ([]domain.Session, error)
	// ListByTrainer returns sessions ordered by date then time.
	ListByTrainer(ctx context.Context, trainerID string) ([]domain.Session, error)
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// UpdateStatus and Delete only match sessions owned by trainerID.
	// UpdateStatus moves a session from one stored status to another and
	// returns ErrStatusChanged when the current status is not from.
	UpdateStatus(ctx context.Context, id, trainerID string, from, to domain.SessionStatus) error
	Delete(ctx context.Context, id, trainerID string) error
	CountByTrainer(ctx context.Context, trainerID string) (int64, error)
}
