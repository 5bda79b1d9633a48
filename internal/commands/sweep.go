package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"alcyxob/trainer-scheduler/internal/repository"
	"alcyxob/trainer-scheduler/internal/service"
)

var sweepTrainer string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove elapsed sessions that were never started",
	Long: `sweep runs the cleanup policy once, for one trainer or for all of them.
It does nothing when schedule.cleanup.enabled is false.`,
	Args: cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, e *env, _ []string) error {
		if !e.cfg.Schedule.Cleanup.Enabled {
			fmt.Fprintln(cmd.OutOrStdout(), "cleanup is disabled (schedule.cleanup.enabled=false)")
			return nil
		}
		sessions, err := e.sessionService()
		if err != nil {
			return err
		}
		total, err := sweepTrainers(ctx, e.stores.Users, sessions, sweepTrainer, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d session(s) removed\n", total)
		return nil
	}),
}

// sweepTrainers sweeps trainerID, or every trainer when it is empty.
func sweepTrainers(ctx context.Context, users repository.UserRepository, sweeper service.Sweeper, trainerID string, out io.Writer) (int, error) {
	ids := []string{trainerID}
	if trainerID == "" {
		trainers, err := users.ListTrainers(ctx, "")
		if err != nil {
			return 0, err
		}
		ids = ids[:0]
		for _, t := range trainers {
			ids = append(ids, t.ID)
		}
	}

	total := 0
	for _, id := range ids {
		n, err := sweeper.Sweep(ctx, id)
		if err != nil {
			return total, fmt.Errorf("sweep %s: %w", id, err)
		}
		fmt.Fprintf(out, "  %s: %d\n", id, n)
		total += n
	}
	return total, nil
}

func init() {
	sweepCmd.Flags().StringVar(&sweepTrainer, "trainer", "", "trainer ID (default: all trainers)")
}
