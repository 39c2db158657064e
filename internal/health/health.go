// Package health verifies the dependencies the generate pipeline needs.
package health

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"terragen/internal/config"
	"terragen/internal/docstore"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// Report contains all health check results
type Report struct {
	Checks []CheckResult
	Passed bool
}

// RunChecks runs all health checks against the given configuration.
// The terraform check never fails the report because the CLI layer is
// advisory.
func RunChecks(ctx context.Context, cfg *config.Configuration) *Report {
	report := &Report{Passed: true}

	add := func(c CheckResult, blocking bool) {
		report.Checks = append(report.Checks, c)
		if blocking && !c.Passed {
			report.Passed = false
		}
	}

	add(CheckGroqKey(cfg.GroqAPIKey), true)
	add(CheckMilvus(ctx, cfg), true)
	add(CheckTerraform(), false)

	return report
}

// CheckGroqKey checks that a completion service API key is configured
func CheckGroqKey(key string) CheckResult {
	if key == "" {
		return CheckResult{
			Name:    "Groq API key",
			Passed:  false,
			Message: "not configured (set GROQ_API_KEY or groq_api_key)",
		}
	}
	return CheckResult{Name: "Groq API key", Passed: true, Message: "configured"}
}

// CheckMilvus checks that the documentation store responds to a query
func CheckMilvus(ctx context.Context, cfg *config.Configuration) CheckResult {
	store := docstore.NewMilvusStore(cfg.MilvusAddr, cfg.MilvusCollection, 5*time.Second)
	names, err := store.Resources(ctx)
	if err != nil {
		return CheckResult{
			Name:    "Milvus",
			Passed:  false,
			Message: fmt.Sprintf("unreachable at %s: %v", cfg.MilvusAddr, err),
		}
	}
	return CheckResult{
		Name:    "Milvus",
		Passed:  true,
		Message: fmt.Sprintf("%d resource types in %s", len(names), cfg.MilvusCollection),
	}
}

// CheckTerraform checks if the terraform CLI is available
func CheckTerraform() CheckResult {
	if _, err := exec.LookPath("terraform"); err != nil {
		return CheckResult{
			Name:    "Terraform CLI",
			Passed:  false,
			Message: "not found in PATH (validation layer will be skipped)",
		}
	}
	return CheckResult{Name: "Terraform CLI", Passed: true, Message: "found"}
}

// FormatReport formats the health report for console output
func FormatReport(report *Report) string {
	var output string
	for _, check := range report.Checks {
		if check.Passed {
			output += fmt.Sprintf("✓ %s: %s\n", check.Name, check.Message)
		} else {
			output += fmt.Sprintf("✗ %s: %s\n", check.Name, check.Message)
		}
	}
	return output
}
