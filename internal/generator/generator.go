// Package generator turns a resolved resource, its collected field values,
// and retrieved doc context into a single Terraform HCL resource block via
// the completion service. The service is not guaranteed to satisfy the
// formatting constraints on the first attempt, so one automatic retry with
// a stricter instruction is built in.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"terragen/internal/collector"
	"terragen/internal/docstore"
	"terragen/internal/llm"
)

// missingRequiredPrefix is the sentinel the generation prompt instructs
// the model to emit when it believes a required field is missing.
const missingRequiredPrefix = "MISSING_REQUIRED:"

// Artifact is the immutable generation output: the configuration text plus
// the inputs it was derived from.
type Artifact struct {
	Resource string
	Values   *collector.Values
	HCL      string
}

// GenerationError means the completion service never produced a
// recognizable configuration block, even after the retry.
type GenerationError struct {
	Resource string
	Detail   string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s: %s", e.Resource, e.Detail)
}

// MissingRequiredError surfaces the model's missing-field sentinel.
type MissingRequiredError struct {
	Field string
}

func (e *MissingRequiredError) Error() string {
	return fmt.Sprintf("generation reports missing required field: %s", e.Field)
}

// Generator produces artifacts through a Completer.
type Generator struct {
	LLM llm.Completer

	// MaxContextChunks bounds the doc excerpt included in the prompt.
	MaxContextChunks int
}

// Generate produces the HCL artifact for resource from values and context
// chunks. Field values are passed through verbatim; the prompt forbids
// renaming, omission, and invented fields.
func (g *Generator) Generate(ctx context.Context, resource string, values *collector.Values, required []string, chunks []docstore.Chunk) (*Artifact, error) {
	prompt := g.buildPrompt(resource, values, required, chunks, false)
	hcl, err := g.attempt(ctx, prompt)
	if err == nil {
		return &Artifact{Resource: resource, Values: values, HCL: hcl}, nil
	}
	var missing *MissingRequiredError
	if ok := asMissingRequired(err, &missing); ok {
		return nil, missing
	}

	// Retry once with the stricter instruction.
	prompt = g.buildPrompt(resource, values, required, chunks, true)
	hcl, retryErr := g.attempt(ctx, prompt)
	if retryErr == nil {
		return &Artifact{Resource: resource, Values: values, HCL: hcl}, nil
	}
	if ok := asMissingRequired(retryErr, &missing); ok {
		return nil, missing
	}
	return nil, &GenerationError{Resource: resource, Detail: retryErr.Error()}
}

func asMissingRequired(err error, out **MissingRequiredError) bool {
	if m, ok := err.(*MissingRequiredError); ok {
		*out = m
		return true
	}
	return false
}

// attempt runs one completion and post-processes it into clean HCL.
func (g *Generator) attempt(ctx context.Context, prompt string) (string, error) {
	raw, err := g.LLM.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}
	cleaned := CleanOutput(raw)
	if strings.HasPrefix(cleaned, missingRequiredPrefix) {
		field := strings.TrimSpace(strings.TrimPrefix(cleaned, missingRequiredPrefix))
		return "", &MissingRequiredError{Field: field}
	}
	if !strings.Contains(cleaned, "resource") {
		return "", fmt.Errorf("no resource block in response")
	}
	return cleaned, nil
}

func (g *Generator) buildPrompt(resource string, values *collector.Values, required []string, chunks []docstore.Chunk, strict bool) string {
	max := g.MaxContextChunks
	if max <= 0 {
		max = 8
	}
	if max > len(chunks) {
		max = len(chunks)
	}
	parts := make([]string, 0, max)
	for _, c := range chunks[:max] {
		parts = append(parts, c.Text)
	}
	context := strings.Join(parts, "\n\n---\n\n")

	vals, _ := json.MarshalIndent(values.Map(), "", "  ")

	var b strings.Builder
	b.WriteString("You are an expert Terraform generator for the CloudStack provider.\n")
	b.WriteString("Produce ONLY valid Terraform HCL for a single resource of the requested type.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Provider must be cloudstack/cloudstack.\n")
	b.WriteString("- Include every user-supplied field with its value verbatim; never rename or drop a field.\n")
	b.WriteString("- Do not invent fields outside the documented schema.\n")
	b.WriteString("- If any required field is missing, output exactly one line starting with 'MISSING_REQUIRED:' and the field name and nothing else.\n")
	b.WriteString("- Output ONLY raw HCL code - NO markdown formatting, NO code fences, NO backticks.\n")
	b.WriteString("- Start directly with the 'resource' keyword.\n")
	if strict {
		b.WriteString("- PREVIOUS ATTEMPT WAS REJECTED: the output MUST begin with 'resource \"" + resource + "\"' and contain nothing but HCL.\n")
	}
	fmt.Fprintf(&b, "\nRESOURCE: %s\n\nUSER VALUES:\n%s\n\nREQUIRED FIELDS:\n%s\n\nCONTEXT (docs excerpt):\n%s\n",
		resource, vals, strings.Join(required, ", "), context)
	b.WriteString("\nOutput: ONLY raw Terraform HCL code (no prose, no markdown, no code fences). If MISSING_REQUIRED, output that single line.\n")
	return b.String()
}
