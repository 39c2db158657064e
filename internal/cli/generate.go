package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"terragen/internal/collector"
	"terragen/internal/config"
	"terragen/internal/docstore"
	"terragen/internal/hclcheck"
	"terragen/internal/llm"
	"terragen/internal/pipeline"
	"terragen/internal/progress"
)

var generateCmd = &cobra.Command{
	Use:   "generate <request>",
	Short: "Generate a Terraform configuration from a free-text request",
	Long: `Generate resolves the request to a CloudStack resource type, collects
the resource's fields interactively, generates HCL through the completion
service, validates it, and saves the result.

Type /cancel at any prompt to abandon the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("show", false, "Print the generated HCL to stdout")
	generateCmd.Flags().String("output-dir", "", "Override the configured output directory")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.GroqAPIKey == "" {
		return NewExitError(ExitMissingDependencies,
			errors.New("no Groq API key configured (set GROQ_API_KEY or groq_api_key)"))
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.OutputDir = dir
	}

	query := strings.Join(args, " ")
	p := buildPipeline(cfg)

	result, err := p.Run(cmd.Context(), query)
	if err != nil {
		var valErr *pipeline.ValidationFailedError
		switch {
		case errors.As(err, &valErr):
			return handleInvalid(p, result)
		case errors.Is(err, collector.ErrAbandoned):
			fmt.Println("Run abandoned. No values were kept.")
			return NewExitError(ExitAbandoned, nil)
		default:
			var unresolved *pipeline.UnresolvedResourceError
			if errors.As(err, &unresolved) {
				return NewExitError(ExitUnresolved, err)
			}
			return err
		}
	}

	printReport(result.Report)
	if show, _ := cmd.Flags().GetBool("show"); show {
		fmt.Println()
		fmt.Println(result.Artifact.HCL)
	}

	path, err := p.Save(result)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Printf("Saved %s\n", path)
	return nil
}

// buildPipeline wires the pipeline from configuration.
func buildPipeline(cfg *config.Configuration) *pipeline.Pipeline {
	timeout := time.Duration(cfg.Timeout) * time.Second
	groq := llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, timeout)

	store := docstore.NewCachedSearcher(
		docstore.NewMilvusStore(cfg.MilvusAddr, cfg.MilvusCollection, timeout), 0)

	cascade := &hclcheck.Cascade{}
	if cfg.TerraformValidation {
		cascade.TerraformRunner = &hclcheck.TerraformRunner{
			Timeout: time.Duration(cfg.ValidationTimeout) * time.Second,
		}
	}

	display := progress.NewDisplay(progress.DetectTerminalCapabilities(), cfg.ShowProgress)

	return &pipeline.Pipeline{
		Store:            store,
		LLM:              groq,
		Prompter:         collector.NewConsolePrompter(os.Stdin, os.Stdout),
		Cascade:          cascade,
		Display:          display,
		MaxContextChunks: cfg.MaxContextChunks,
		EmptyHintAfter:   cfg.EmptyHintAfter,
		OutputDir:        cfg.OutputDir,
	}
}

// handleInvalid shows the failed report and offers to keep the artifact
// anyway. Useful when the advisory layers are too strict for a draft.
func handleInvalid(p *pipeline.Pipeline, result *pipeline.Result) error {
	printReport(result.Report)

	prompter := collector.NewConsolePrompter(os.Stdin, os.Stdout)
	save, err := prompter.Confirm("Validation failed. Save the configuration anyway?")
	if err != nil || !save {
		fmt.Println("Discarded.")
		return NewExitError(ExitValidationFailed, nil)
	}
	path, err := p.Save(result)
	if err != nil {
		return err
	}
	color.New(color.FgYellow).Printf("Saved (unvalidated) %s\n", path)
	return NewExitError(ExitValidationFailed, nil)
}

// printReport renders the cascade results with pass/fail marks.
func printReport(rep *hclcheck.Report) {
	if rep == nil {
		return
	}
	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()
	skip := color.New(color.Faint).SprintFunc()

	fmt.Println("Validation report:")
	for _, l := range rep.Layers {
		switch {
		case l.Passed && strings.HasPrefix(l.Detail, "skipped:"):
			fmt.Printf("  %s %-16s %s\n", skip("-"), l.Name, skip(l.Detail))
		case l.Passed:
			fmt.Printf("  %s %-16s %s\n", pass("✓"), l.Name, l.Detail)
		default:
			fmt.Printf("  %s %-16s %s\n", fail("✗"), l.Name, l.Detail)
		}
	}
}
