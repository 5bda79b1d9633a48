package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/config"
	"alcyxob/trainer-scheduler/internal/logging"
	"alcyxob/trainer-scheduler/internal/repository/backend"
	"alcyxob/trainer-scheduler/internal/schedule"
	"alcyxob/trainer-scheduler/internal/service"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "schedctl",
	Short: "Administer the trainer scheduler",
	Long: `schedctl manages the trainer scheduler's data directly:
seed demo accounts, create users and run cleanup sweeps.`,
	SilenceUsage: true,
}

// env is everything a command needs, opened from the loaded config.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	stores *backend.Stores
}

func (e *env) close() {
	if err := e.stores.Close(); err != nil {
		e.logger.Warn("Failed to close database", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func (e *env) authService() service.AuthService {
	secret := e.cfg.JWT.Secret
	if secret == "" {
		// Tokens are never issued from the CLI.
		secret = "schedctl"
	}
	return service.NewAuthService(e.stores.Users, secret, e.cfg.JWT.Expiration)
}

func (e *env) sessionService() (service.SessionService, error) {
	loc, err := e.cfg.Schedule.Location()
	if err != nil {
		return nil, err
	}
	policy := schedule.CleanupPolicy{Enabled: e.cfg.Schedule.Cleanup.Enabled}
	return service.NewSessionService(e.stores.Sessions, policy, loc, e.logger), nil
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	stores, err := backend.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, stores: stores}, nil
}

// withEnv opens the configured backend around fn.
func withEnv(fn func(ctx context.Context, cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		e, err := openEnv(ctx)
		if err != nil {
			return fmt.Errorf("open environment: %w", err)
		}
		defer e.close()
		return fn(ctx, cmd, e, args)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "config directory or file")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(sweepCmd)
}
