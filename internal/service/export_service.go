package service

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/repository"
	"alcyxob/trainer-scheduler/internal/storage"
)

const icsContentType = "text/calendar; charset=utf-8"

// Export is a downloadable calendar snapshot.
type Export struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"object_key"`
	Count     int       `json:"count"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService publishes a trainer's sessions as an iCalendar file.
type ExportService interface {
	ExportCalendar(ctx context.Context, trainerID string) (*Export, error)
}

type exportService struct {
	sessionRepo repository.SessionRepository
	fileStorage storage.FileStorage // nil when exports are disabled
	expiry      time.Duration       // lifetime of the presigned link
	loc         *time.Location      // zone for floating DTSTART/DTEND
	now         func() time.Time
	logger      *zap.Logger
}

// NewExportService returns an ExportService. A nil fileStorage yields a
// service that reports ErrExportDisabled.
func NewExportService(sessionRepo repository.SessionRepository, fileStorage storage.FileStorage, expiry time.Duration, loc *time.Location, logger *zap.Logger) ExportService {
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	if loc == nil {
		loc = time.Local
	}
	return &exportService{
		sessionRepo: sessionRepo,
		fileStorage: fileStorage,
		expiry:      expiry,
		loc:         loc,
		now:         time.Now,
		logger:      logger,
	}
}

// ExportCalendar renders every session of the trainer, uploads the file
// under exports/<trainerID>/ and returns a presigned link to it.
func (s *exportService) ExportCalendar(ctx context.Context, trainerID string) (*Export, error) {
	if s.fileStorage == nil {
		return nil, ErrExportDisabled
	}

	sessions, err := s.sessionRepo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, &StoreError{Op: "list sessions", Err: err}
	}

	now := s.now()
	body := renderICS(sessions, now, s.loc)
	objectKey := path.Join("exports", trainerID, uuid.NewString()+".ics")

	if err := s.fileStorage.PutObject(ctx, objectKey, icsContentType, body); err != nil {
		return nil, &StoreError{Op: "upload export", Err: err}
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, s.expiry)
	if err != nil {
		// An upload without a link is unreachable.
		if delErr := s.fileStorage.DeleteObject(ctx, objectKey); delErr != nil {
			s.logger.Warn("Failed to remove unpublished export",
				zap.String("trainer_id", trainerID),
				zap.String("key", objectKey),
				zap.Error(delErr))
		}
		return nil, &StoreError{Op: "presign export", Err: err}
	}

	s.logger.Info("Calendar exported",
		zap.String("trainer_id", trainerID),
		zap.String("key", objectKey),
		zap.Int("sessions", len(sessions)))

	return &Export{
		URL:       url,
		ObjectKey: objectKey,
		Count:     len(sessions),
		ExpiresAt: now.Add(s.expiry).UTC(),
	}, nil
}
