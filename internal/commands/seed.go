package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"alcyxob/trainer-scheduler/internal/domain"
	"alcyxob/trainer-scheduler/internal/service"
)

type demoUser struct {
	name, email, username, password string
	role                            domain.Role
}

var demoUsers = []demoUser{
	{"John Smith", "john@example.com", "johnsmith", "password123", domain.RoleTrainer},
	{"Sarah Johnson", "sarah@example.com", "sarahj", "trainer456", domain.RoleTrainer},
	{"Mike Wilson", "mike@example.com", "mikew", "fitness789", domain.RoleTrainer},
	{"Admin User", "admin@example.com", "admin", "admin123", domain.RoleAdmin},
	{"Super Admin", "superadmin@example.com", "superadmin", "super123", domain.RoleAdmin},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo trainer and admin accounts",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, e *env, _ []string) error {
		created, err := seedUsers(ctx, e.authService(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d account(s) created\n", created)
		return nil
	}),
}

// seedUsers registers every demo account that does not exist yet.
func seedUsers(ctx context.Context, auth service.AuthService, out io.Writer) (int, error) {
	created := 0
	for _, u := range demoUsers {
		_, err := auth.Register(ctx, u.name, u.email, u.username, u.password, u.role)
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			fmt.Fprintf(out, "  %-12s exists\n", u.username)
		case err != nil:
			return created, fmt.Errorf("seed %s: %w", u.username, err)
		default:
			created++
			fmt.Fprintf(out, "  %-12s created (%s)\n", u.username, u.role)
		}
	}
	return created, nil
}
