package cmd

import (
	"fmt"

	"roadmap-review/repositories"
	"roadmap-review/services"

	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage moderators",
	}
	cmd.AddCommand(newAdminSetCmd("grant", "Give a user the admin capability", true))
	cmd.AddCommand(newAdminSetCmd("revoke", "Remove the admin capability from a user", false))
	return cmd
}

func newAdminSetCmd(use, short string, isAdmin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Sync()

			db, closeDB, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			authService := services.NewAuthService(repositories.NewUserRepository(db), cfg.JWT, log)
			user, err := authService.SetAdmin(cmd.Context(), args[0], isAdmin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s admin=%t\n", user.Email, user.IsAdmin)
			return nil
		},
	}
}
