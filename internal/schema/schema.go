// Package schema models the field contract of a provisionable resource:
// the ordered required fields, the optional fields, and per-field hints
// (example value, allowed options, default) mined from provider docs.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// FieldSpec describes a single schema field and its prompting hints.
type FieldSpec struct {
	Name    string   `json:"name"`
	Example string   `json:"example,omitempty"`
	Options []string `json:"options,omitempty"`
	Default string   `json:"default,omitempty"`
}

// HasDefault reports whether the field carries a documented default value.
func (f FieldSpec) HasDefault() bool {
	return f.Default != ""
}

// Allows reports whether value is acceptable for this field. Fields without
// an options list accept any value.
func (f FieldSpec) Allows(value string) bool {
	if len(f.Options) == 0 {
		return true
	}
	for _, opt := range f.Options {
		if value == opt {
			return true
		}
	}
	return false
}

// Hint renders the field's suggestions for an interactive prompt,
// e.g. "default=ubuntu, options=[small medium large]".
func (f FieldSpec) Hint() string {
	var parts []string
	if f.Default != "" {
		parts = append(parts, "default="+f.Default)
	}
	if f.Example != "" {
		parts = append(parts, "example="+f.Example)
	}
	if len(f.Options) > 0 {
		parts = append(parts, "options=["+strings.Join(f.Options, " ")+"]")
	}
	if len(parts) == 0 {
		return "no suggestion"
	}
	return strings.Join(parts, ", ")
}

// ResourceSchema is the field contract for one resource identifier.
// Required preserves the declaration order used during collection.
type ResourceSchema struct {
	Identifier string      `json:"identifier"`
	Required   []FieldSpec `json:"required"`
	Optional   []FieldSpec `json:"optional,omitempty"`
}

// Validate checks the schema invariants: a non-empty identifier and
// disjoint required/optional field names.
func (s *ResourceSchema) Validate() error {
	if s.Identifier == "" {
		return fmt.Errorf("schema: empty resource identifier")
	}
	seen := make(map[string]bool, len(s.Required))
	for _, f := range s.Required {
		if f.Name == "" {
			return fmt.Errorf("schema %s: required field with empty name", s.Identifier)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema %s: duplicate required field %q", s.Identifier, f.Name)
		}
		seen[f.Name] = true
	}
	for _, f := range s.Optional {
		if seen[f.Name] {
			return fmt.Errorf("schema %s: field %q is both required and optional", s.Identifier, f.Name)
		}
	}
	return nil
}

// RequiredNames returns the required field names in declaration order.
func (s *ResourceSchema) RequiredNames() []string {
	names := make([]string, len(s.Required))
	for i, f := range s.Required {
		names[i] = f.Name
	}
	return names
}

// sortFields orders optional fields deterministically by name.
func sortFields(fields []FieldSpec) {
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
}
