// Package cli provides the Cobra-based commands for the terragen tool:
// generate (the interactive pipeline), resources, doctor, and version.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"terragen/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "terragen",
	Short: "Generate validated Terraform configurations from plain requests",
	Long: `terragen turns a free-text infrastructure request into a validated,
provider-specific Terraform file.

It resolves the request to a CloudStack resource type, retrieves the
provider documentation from a vector store, walks you through the
resource's fields, generates the HCL, and validates it before saving.`,
	Example: `  # Generate a configuration interactively
  terragen generate "I need a new virtual machine"

  # List the resource types the doc store knows about
  terragen resources

  # Check that Groq, Milvus and terraform are reachable
  terragen doctor`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	// Exit errors without a message already reported themselves.
	var ee *exitError
	if errors.As(err, &ee) && ee.err == nil {
		return ee.code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", ".terragen/config.json", "Path to config file")
	rootCmd.PersistentFlags().Bool("no-progress", false, "Disable progress indicators")
}

// loadConfig reads the layered configuration honoring the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); noProgress {
		cfg.ShowProgress = false
	}
	return cfg, nil
}
