package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"task-service.com/task-service/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "task-service",
	Short:         "Todo/task CRUD service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("profile", "", "service profile: api-service, backend or web-app (overrides SERVICE_PROFILE)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
