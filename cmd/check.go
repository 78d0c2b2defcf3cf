package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"task-service.com/task-service/internal/admission"
	"task-service.com/task-service/internal/services"
)

var checkTimeout time.Duration

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the health check once and print the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		defer cancel()

		report := a.diagnostics(admission.NewLocalTokenManager(1)).Health(ctx)

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if report.Status != services.StatusOK {
			return fmt.Errorf("database unreachable: %s", report.Database.Error)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Second, "overall timeout for the check")
	rootCmd.AddCommand(checkCmd)
}
