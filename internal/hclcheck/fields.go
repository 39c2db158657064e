package hclcheck

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// checkRequiredFields verifies that every required attribute is set to a
// non-empty value inside the first resource block. When the artifact did
// not parse, it falls back to a raw-text scan for `name =` assignments so
// the layer still names what is missing.
func checkRequiredFields(body *hclsyntax.Body, raw string, required []string) LayerResult {
	res := LayerResult{Name: LayerFields}

	if len(required) == 0 {
		res.Passed = true
		res.Detail = "no required fields declared"
		return res
	}

	var missing []string
	if block := firstResourceBlock(body); block != nil {
		for _, name := range required {
			attr, ok := block.Body.Attributes[name]
			if !ok {
				missing = append(missing, name)
				continue
			}
			if isEmptyLiteral(attr) {
				missing = append(missing, name+" (empty)")
			}
		}
	} else {
		for _, name := range required {
			if !fieldAssignmentRe(name).MatchString(raw) {
				missing = append(missing, name)
			}
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		res.Detail = "missing required fields: " + strings.Join(missing, ", ")
		return res
	}
	res.Passed = true
	res.Detail = fmt.Sprintf("all %d required fields present", len(required))
	return res
}

// fieldAssignmentRe matches a `name =` assignment anywhere in the text.
func fieldAssignmentRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*=`)
}

func firstResourceBlock(body *hclsyntax.Body) *hclsyntax.Block {
	if body == nil {
		return nil
	}
	for _, b := range body.Blocks {
		if b.Type == "resource" {
			return b
		}
	}
	return nil
}

// isEmptyLiteral reports whether an attribute is a literal empty string.
// Attributes holding references or expressions evaluate with errors here
// and are treated as set; that is the CLI layer's territory.
func isEmptyLiteral(attr *hclsyntax.Attribute) bool {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return false
	}
	return val.Type() == cty.String && val.AsString() == ""
}
