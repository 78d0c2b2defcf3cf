package cmd

import (
	"github.com/spf13/cobra"

	config "task-service.com/task-service/internal/configs"
	"task-service.com/task-service/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the profile's table if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db, err := config.NewDatabaseClient(cfg.DB)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := config.Migrate(db, cfg.Profile); err != nil {
			return err
		}

		logging.Info().Str("table", cfg.Profile.Table).Str("profile", cfg.Profile.Name).Msg("migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
