package pipeline

import (
	"errors"
	"fmt"

	"terragen/internal/collector"
	"terragen/internal/generator"
	"terragen/internal/hclcheck"
	"terragen/internal/resolver"
)

// UnresolvedResourceError means the request could not be mapped to any
// known resource type because none exist to map to.
type UnresolvedResourceError struct {
	Query string
}

func (e *UnresolvedResourceError) Error() string {
	return fmt.Sprintf("cannot resolve %q: no resource types available", e.Query)
}

// ValidationFailedError carries the full report so callers can show the
// per-layer details and still offer to save the artifact.
type ValidationFailedError struct {
	Report *hclcheck.Report
}

func (e *ValidationFailedError) Error() string {
	for _, l := range e.Report.Layers {
		if !l.Passed {
			return fmt.Sprintf("validation failed at %s layer: %s", l.Name, l.Detail)
		}
	}
	return "validation failed"
}

// IsRecoverable reports whether err is one of the pipeline's expected
// failure modes, after which a fresh request can be attempted.
func IsRecoverable(err error) bool {
	var unresolved *UnresolvedResourceError
	var genErr *generator.GenerationError
	var missingErr *generator.MissingRequiredError
	var valErr *ValidationFailedError
	return errors.As(err, &unresolved) ||
		errors.Is(err, resolver.ErrNoResources) ||
		errors.Is(err, collector.ErrAbandoned) ||
		errors.As(err, &genErr) ||
		errors.As(err, &missingErr) ||
		errors.As(err, &valErr)
}
