// Package backend opens the repository implementation named by database.driver.
package backend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/config"
	"alcyxob/trainer-scheduler/internal/repository"
	"alcyxob/trainer-scheduler/internal/repository/mongo"
	"alcyxob/trainer-scheduler/internal/repository/sqlite"
)

// Stores is an open backend.
type Stores struct {
	Users    repository.UserRepository
	Sessions repository.SessionRepository
	close    func() error
}

// Close releases the connection.
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the configured backend. For mongo it also ensures the
// collection indexes; failures there are logged, not returned.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("SQLite database ready", zap.String("path", cfg.Path))
		return &Stores{
			Users:    sqlite.NewUserRepository(db),
			Sessions: sqlite.NewSessionRepository(db),
			close:    func() error { return sqlite.Close(db) },
		}, nil

	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		appDB := client.Database(cfg.Name)

		idxCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongo.EnsureUserIndexes(idxCtx, appDB.Collection("users")); err != nil {
			logger.Warn("Failed to ensure user indexes", zap.Error(err))
		}
		if err := mongo.EnsureSessionIndexes(idxCtx, appDB.Collection("sessions")); err != nil {
			logger.Warn("Failed to ensure session indexes", zap.Error(err))
		}
		logger.Info("MongoDB connection established", zap.String("database", cfg.Name))

		return &Stores{
			Users:    mongo.NewMongoUserRepository(appDB),
			Sessions: mongo.NewMongoSessionRepository(appDB),
			close:    func() error { return mongo.DisconnectDB(client) },
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}
