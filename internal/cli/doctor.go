package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"terragen/internal/health"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks for terragen dependencies",
	Long: `Run health checks to verify that the generation pipeline can work.

This command checks:
  - Groq API key is configured
  - Milvus documentation store is reachable
  - Terraform CLI is installed (optional, validation layer only)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		report := health.RunChecks(cmd.Context(), cfg)
		fmt.Print(health.FormatReport(report))
		if !report.Passed {
			return NewExitError(ExitMissingDependencies, errors.New("health checks failed"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
