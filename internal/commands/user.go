package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"alcyxob/trainer-scheduler/internal/domain"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var (
	userName     string
	userEmail    string
	userUsername string
	userPassword string
	userRole     string
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a trainer or admin account",
	Args:  cobra.NoArgs,
	RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, e *env, _ []string) error {
		role := domain.Role(userRole)
		if !domain.ValidRole(role) {
			return fmt.Errorf("--role must be %q or %q", domain.RoleTrainer, domain.RoleAdmin)
		}
		user, err := e.authService().Register(ctx, userName, userEmail, userUsername, userPassword, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (id %s)\n", user.Role, user.Username, user.ID)
		return nil
	}),
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userName, "name", "", "display name")
	f.StringVar(&userEmail, "email", "", "email address")
	f.StringVar(&userUsername, "username", "", "login name")
	f.StringVar(&userPassword, "password", "", "password")
	f.StringVar(&userRole, "role", string(domain.RoleTrainer), "trainer or admin")
	for _, name := range []string{"name", "email", "username", "password"} {
		_ = userCreateCmd.MarkFlagRequired(name)
	}
	userCmd.AddCommand(userCreateCmd)
}
