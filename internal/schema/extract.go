package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"terragen/internal/docstore"
	"terragen/internal/llm"
)

// Builder assembles a ResourceSchema from retrieved doc chunks. Required
// field names come from the chunk metadata; optional fields and per-field
// hints are mined from the doc text, asking the completion service first
// and falling back to conservative regex heuristics when it fails.
type Builder struct {
	LLM llm.Completer

	// MaxContextChunks bounds how much doc text is given to the
	// completion service per extraction call.
	MaxContextChunks int
}

// Build produces the schema for identifier from its doc chunks.
func (b *Builder) Build(ctx context.Context, identifier string, chunks []docstore.Chunk) (*ResourceSchema, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("schema: no documentation chunks for %s", identifier)
	}

	var requiredNames []string
	for _, c := range chunks {
		if len(c.RequiredFields) > 0 {
			requiredNames = c.RequiredFields
			break
		}
	}

	docs := b.contextText(chunks)

	sch := &ResourceSchema{Identifier: identifier}
	for _, name := range requiredNames {
		sch.Required = append(sch.Required, b.fieldDetails(ctx, name, docs))
	}
	for _, name := range b.optionalNames(ctx, docs, requiredNames) {
		sch.Optional = append(sch.Optional, b.fieldDetails(ctx, name, docs))
	}
	sortFields(sch.Optional)

	if err := sch.Validate(); err != nil {
		return nil, err
	}
	return sch, nil
}

func (b *Builder) contextText(chunks []docstore.Chunk) string {
	max := b.MaxContextChunks
	if max <= 0 || max > len(chunks) {
		max = len(chunks)
	}
	parts := make([]string, 0, max)
	for _, c := range chunks[:max] {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, "\n\n")
}

// optionalNames lists optional field names found in the docs, excluding
// anything already required.
func (b *Builder) optionalNames(ctx context.Context, docs string, required []string) []string {
	prompt := fmt.Sprintf(`Extract OPTIONAL argument/field names from the following Terraform provider documentation.
Return ONLY a JSON array of strings, e.g. ["field1","field2"].
Exclude required fields: %s

Docs:
%s`, strings.Join(required, ", "), docs)

	var names []string
	if b.LLM != nil {
		if err := llm.CompleteJSON(ctx, b.LLM, prompt, &names); err == nil {
			return dedupeExcluding(names, required)
		}
	}
	return dedupeExcluding(optionalFieldsFromDocs(docs), required)
}

var optionalMarker = regexp.MustCompile("(?i)`?([a-zA-Z0-9_]+)`?.{0,40}\\(Optional\\)")

// optionalFieldsFromDocs scans for the "(Optional)" marker the provider
// docs use in their argument reference lists.
func optionalFieldsFromDocs(docs string) []string {
	var names []string
	for _, m := range optionalMarker.FindAllStringSubmatch(docs, -1) {
		names = append(names, m[1])
	}
	return names
}

// fieldDetails mines the example/default/options hints for one field.
func (b *Builder) fieldDetails(ctx context.Context, name, docs string) FieldSpec {
	spec := FieldSpec{Name: name}

	if b.LLM != nil {
		prompt := fmt.Sprintf(`You are given Terraform provider documentation text. For the field name '%s', return a JSON object:
{"example": "...", "default": "...", "options": ["opt1","opt2"]}
Use null for unknowns. Return ONLY JSON.
Docs:
%s`, name, docs)

		var out struct {
			Example *string  `json:"example"`
			Default *string  `json:"default"`
			Options []string `json:"options"`
		}
		if err := llm.CompleteJSON(ctx, b.LLM, prompt, &out); err == nil {
			if out.Example != nil {
				spec.Example = *out.Example
			}
			if out.Default != nil {
				spec.Default = *out.Default
			}
			spec.Options = out.Options
			return spec
		}
	}
	return fieldDetailsFromDocs(name, docs)
}

// fieldDetailsFromDocs applies conservative regex heuristics for the
// common doc phrasings: "Defaults to X", "valid options are X, Y",
// "e.g., X".
func fieldDetailsFromDocs(name, docs string) FieldSpec {
	spec := FieldSpec{Name: name}
	quoted := regexp.QuoteMeta(name)

	if m := regexp.MustCompile("(?i)" + quoted + "[^\n]{0,120}default[s]?(?: to|:)\\s*`?([^`\n,.]+)`?").FindStringSubmatch(docs); m != nil {
		spec.Default = strings.TrimSpace(m[1])
	}
	if m := regexp.MustCompile("(?i)" + quoted + "[^\n]{0,160}(?:valid options|allowed values)(?:\\s+are)?\\s*:?\\s*([^\n.]+)").FindStringSubmatch(docs); m != nil {
		opts := regexp.MustCompile(`[A-Za-z0-9_\-]+`).FindAllString(m[1], -1)
		spec.Options = opts
	}
	if m := regexp.MustCompile("(?i)" + quoted + "[^\n]{0,160}(?:e\\.g\\.|for example|example)[^\n:]*[:\\-]?\\s*`?([A-Za-z0-9_\\-\\.]+)`?").FindStringSubmatch(docs); m != nil {
		spec.Example = strings.TrimSpace(m[1])
	}
	return spec
}

func dedupeExcluding(names, excluded []string) []string {
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[e] = true
	}
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || skip[n] || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
