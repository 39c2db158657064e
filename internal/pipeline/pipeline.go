// Package pipeline orchestrates the request-to-configuration flow:
// resolve the resource type, retrieve its documentation, build the field
// schema, collect values interactively, generate HCL, and validate it.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"terragen/internal/collector"
	"terragen/internal/docstore"
	"terragen/internal/generator"
	"terragen/internal/hclcheck"
	"terragen/internal/llm"
	"terragen/internal/output"
	"terragen/internal/progress"
	"terragen/internal/resolver"
	"terragen/internal/schema"
)

// Result is the outcome of a completed pipeline run. Present even when
// validation fails, so the caller can decide whether to keep the artifact.
type Result struct {
	Resource string
	Schema   *schema.ResourceSchema
	Artifact *generator.Artifact
	Report   *hclcheck.Report
}

// Pipeline holds the collaborators for one generation flow.
type Pipeline struct {
	Store    docstore.Searcher
	LLM      llm.Completer
	Prompter collector.Prompter
	Cascade  *hclcheck.Cascade
	Display  *progress.Display

	MaxContextChunks int
	EmptyHintAfter   int
	OutputDir        string
}

// stage identifiers for progress display, in execution order. Collection
// is interactive and deliberately absent: a spinner over a prompt is noise.
var stages = []string{"resolve", "retrieve", "schema", "generate", "validate"}

func (p *Pipeline) stageInfo(name string) progress.StageInfo {
	for i, s := range stages {
		if s == name {
			return progress.StageInfo{Name: name, Number: i + 1, TotalStages: len(stages)}
		}
	}
	return progress.StageInfo{Name: name, Number: 1, TotalStages: len(stages)}
}

func (p *Pipeline) runStage(name string, fn func() error) error {
	info := p.stageInfo(name)
	if p.Display != nil {
		_ = p.Display.StartStage(info)
	}
	if err := fn(); err != nil {
		if p.Display != nil {
			_ = p.Display.FailStage(info, err)
		}
		return err
	}
	if p.Display != nil {
		_ = p.Display.CompleteStage(info)
	}
	return nil
}

// Run executes the full flow for a free-text request. On validation
// failure it returns both the result and a *ValidationFailedError so the
// caller can still save the artifact.
func (p *Pipeline) Run(ctx context.Context, query string) (*Result, error) {
	var resource string
	err := p.runStage("resolve", func() error {
		known, err := p.Store.Resources(ctx)
		if err != nil {
			return fmt.Errorf("listing resource types: %w", err)
		}
		resource, err = resolver.New(p.LLM).Resolve(ctx, query, known)
		if errors.Is(err, resolver.ErrNoResources) {
			return &UnresolvedResourceError{Query: query}
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	var chunks []docstore.Chunk
	err = p.runStage("retrieve", func() error {
		var err error
		chunks, err = p.Store.Search(ctx, resource, p.MaxContextChunks)
		if err != nil {
			return fmt.Errorf("retrieving docs for %s: %w", resource, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var sch *schema.ResourceSchema
	err = p.runStage("schema", func() error {
		builder := &schema.Builder{LLM: p.LLM, MaxContextChunks: p.MaxContextChunks}
		var err error
		sch, err = builder.Build(ctx, resource, chunks)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Interactive collection happens outside the spinner.
	if p.Display != nil {
		p.Display.StopSpinner()
	}
	coll := &collector.Collector{Prompter: p.Prompter, EmptyHintAfter: p.EmptyHintAfter}
	session, err := coll.Run(sch)
	if err != nil {
		return nil, err
	}

	var artifact *generator.Artifact
	err = p.runStage("generate", func() error {
		gen := &generator.Generator{LLM: p.LLM, MaxContextChunks: p.MaxContextChunks}
		var err error
		artifact, err = gen.Generate(ctx, resource, session.Values(), sch.RequiredNames(), chunks)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Resource: resource, Schema: sch, Artifact: artifact}
	err = p.runStage("validate", func() error {
		result.Report = p.Cascade.Check(ctx, artifact.HCL, sch.RequiredNames())
		if !result.Report.Valid() {
			return &ValidationFailedError{Report: result.Report}
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// Save writes the result's artifact to the configured output directory,
// naming the file from the collected "name" value when present.
func (p *Pipeline) Save(result *Result) (string, error) {
	logical, ok := result.Artifact.Values.Get("name")
	if !ok || logical == "" {
		logical = "resource"
	}
	return output.Write(p.OutputDir, result.Resource, logical, result.Artifact.HCL)
}
