package main

import (
	"github.com/spf13/cobra"

	"waitstat/internal"
	"waitstat/internal/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the report tables in DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), cfg.Database, true)
			if err != nil {
				return err
			}
			defer db.Close()

			internal.DefaultLogger.Info("migrations applied")
			return nil
		},
	}
}
