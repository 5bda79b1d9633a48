package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// userModel is the users table.
type userModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"not null;index"`
	Email        string `gorm:"uniqueIndex"`
	Username     string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

// sessionModel is the sessions table. Date and time are stored as
// zero-padded strings so ORDER BY is chronological.
type sessionModel struct {
	ID          string  `gorm:"primaryKey;size:36"`
	TrainerID   string  `gorm:"not null;index:idx_sessions_trainer_when,priority:1"`
	Title       string  `gorm:"not null"`
	ClientName  string  `gorm:"not null"`
	SessionDate string  `gorm:"size:10;not null;index:idx_sessions_trainer_when,priority:2"`
	SessionTime string  `gorm:"size:5;not null;index:idx_sessions_trainer_when,priority:3"`
	Duration    int     `gorm:"not null"`
	SessionType string  `gorm:"not null"`
	Description string
	Status      *string // NULL means scheduled
	CreatedAt   time.Time
}

func (sessionModel) TableName() string { return "sessions" }

// Open connects to the sqlite file at path and runs migrations.
// ":memory:" gives a private in-memory database.
func Open(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection keeps an in-memory database alive and serializes writers.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&userModel{}, &sessionModel{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
