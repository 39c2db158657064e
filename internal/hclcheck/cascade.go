// Package hclcheck validates generated Terraform configurations through a
// layered cascade: HCL syntax, required-field presence, and an advisory
// pass through the terraform CLI when one is installed. The first two
// layers are blocking; the CLI layer never blocks because its absence or
// environment-specific failures say nothing about the configuration itself.
package hclcheck

import "context"

// LayerResult records one validation layer's outcome. Advisory layers
// that cannot run report Passed=true with a "skipped: ..." detail so that
// a report never fails for reasons outside the configuration text.
type LayerResult struct {
	Name   string
	Passed bool
	Detail string
}

// Report aggregates the layer results for one configuration.
type Report struct {
	Layers []LayerResult
}

// Valid reports whether every layer passed or was skipped.
func (r *Report) Valid() bool {
	for _, l := range r.Layers {
		if !l.Passed {
			return false
		}
	}
	return true
}

// Layer returns the result with the given name, or nil.
func (r *Report) Layer(name string) *LayerResult {
	for i := range r.Layers {
		if r.Layers[i].Name == name {
			return &r.Layers[i]
		}
	}
	return nil
}

// Cascade runs the validation layers in order.
type Cascade struct {
	// TerraformRunner performs the CLI layer. Nil disables it entirely
	// rather than reporting it skipped.
	TerraformRunner *TerraformRunner
}

// Layer names as they appear in reports.
const (
	LayerSyntax    = "syntax"
	LayerFields    = "required-fields"
	LayerTerraform = "terraform"
)

// Check validates hclText for the given resource. requiredFields lists the
// attribute names the resource block must set to non-empty values.
func (c *Cascade) Check(ctx context.Context, hclText string, requiredFields []string) *Report {
	rep := &Report{}

	syntaxRes, body := checkSyntax(hclText)
	rep.Layers = append(rep.Layers, syntaxRes)

	// The fields layer always runs and reports, even over a broken
	// artifact, so one report names every problem at once.
	rep.Layers = append(rep.Layers, checkRequiredFields(body, hclText, requiredFields))

	if c.TerraformRunner != nil {
		if syntaxRes.Passed {
			rep.Layers = append(rep.Layers, c.TerraformRunner.Run(ctx, hclText))
		} else {
			rep.Layers = append(rep.Layers, LayerResult{
				Name:   LayerTerraform,
				Passed: true,
				Detail: "skipped: syntax invalid",
			})
		}
	}
	return rep
}
