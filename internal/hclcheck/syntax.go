package hclcheck

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// checkSyntax parses hclText and requires at least one recognizable
// top-level block. The parsed body is returned so the field layer does not
// parse twice.
func checkSyntax(hclText string) (LayerResult, *hclsyntax.Body) {
	res := LayerResult{Name: LayerSyntax}

	if strings.TrimSpace(hclText) == "" {
		res.Detail = "empty configuration"
		return res, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(hclText), "main.tf")
	if diags.HasErrors() {
		res.Detail = diagDetail(diags)
		return res, nil
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok || len(body.Blocks) == 0 {
		res.Detail = "no terraform blocks found"
		return res, nil
	}

	for _, b := range body.Blocks {
		switch b.Type {
		case "resource", "terraform", "provider", "data":
			res.Passed = true
			res.Detail = fmt.Sprintf("parsed %d block(s)", len(body.Blocks))
			return res, body
		}
	}
	res.Detail = "no resource, provider, terraform or data block"
	return res, nil
}

func diagDetail(diags hcl.Diagnostics) string {
	msgs := make([]string, 0, len(diags))
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "; ")
}
