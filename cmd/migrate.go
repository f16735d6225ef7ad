package cmd

import (
	"fmt"

	"roadmap-review/repositories"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
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

			if err := repositories.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info("database migrated", "driver", cfg.Database.Driver)
			fmt.Fprintln(cmd.OutOrStdout(), "Migration complete.")
			return nil
		},
	}
}
