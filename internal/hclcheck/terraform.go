package hclcheck

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// providerConfig pins the CloudStack provider so terraform init resolves
// the same schema the documentation describes.
const providerConfig = `terraform {
  required_providers {
    cloudstack = {
      source  = "cloudstack/cloudstack"
      version = "~> 0.5"
    }
  }
}

provider "cloudstack" {
  api_url    = "http://localhost:8080/client/api"
  api_key    = "placeholder"
  secret_key = "placeholder"
}
`

// TerraformRunner executes `terraform init` and `terraform validate` in a
// throwaway directory. Its result is advisory: when the binary is absent
// or the run times out, the layer reports itself skipped rather than
// failed.
type TerraformRunner struct {
	// Binary overrides the executable name, for tests.
	Binary string

	// Timeout bounds the combined init and validate runs.
	Timeout time.Duration
}

func (t *TerraformRunner) binary() string {
	if t.Binary != "" {
		return t.Binary
	}
	return "terraform"
}

func (t *TerraformRunner) timeout() time.Duration {
	if t.Timeout > 0 {
		return t.Timeout
	}
	return 60 * time.Second
}

// Run validates hclText through the terraform CLI.
func (t *TerraformRunner) Run(ctx context.Context, hclText string) LayerResult {
	res := LayerResult{Name: LayerTerraform}

	if _, err := exec.LookPath(t.binary()); err != nil {
		res.Passed = true
		res.Detail = "skipped: tool unavailable"
		return res
	}

	dir, err := os.MkdirTemp("", "terragen-validate-*")
	if err != nil {
		res.Passed = true
		res.Detail = "skipped: " + err.Error()
		return res
	}
	defer os.RemoveAll(dir)

	files := map[string]string{
		"main.tf":     hclText,
		"provider.tf": providerConfig,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			res.Passed = true
			res.Detail = "skipped: " + err.Error()
			return res
		}
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout())
	defer cancel()

	if out, err := t.run(ctx, dir, "init", "-backend=false", "-no-color"); err != nil {
		if ctx.Err() != nil {
			res.Passed = true
			res.Detail = "skipped: timed out"
			return res
		}
		// init chokes on the configuration itself when it cannot even
		// parse it; that is a real finding, not environment trouble.
		if strings.Contains(out, "Error parsing") {
			res.Detail = firstErrorLine(out)
			return res
		}
		// Everything else is network or registry trouble, not the
		// configuration's fault.
		res.Passed = true
		res.Detail = "skipped: init failed: " + firstErrorLine(out)
		return res
	}

	out, err := t.run(ctx, dir, "validate", "-no-color")
	if err != nil {
		if ctx.Err() != nil {
			res.Passed = true
			res.Detail = "skipped: timed out"
			return res
		}
		res.Detail = firstErrorLine(out)
		return res
	}
	res.Passed = true
	res.Detail = "terraform validate passed"
	return res
}

// run executes one terraform subcommand, killing it if the context ends.
func (t *TerraformRunner) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, t.binary(), args...)
	cmd.Dir = dir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("starting %s: %w", t.binary(), err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return buf.String(), ctx.Err()
	case err := <-done:
		return buf.String(), err
	}
}

// firstErrorLine condenses CLI output to the most useful line.
func firstErrorLine(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Error:") || strings.HasPrefix(line, "Error ") {
			return line
		}
	}
	out = strings.TrimSpace(out)
	if len(out) > 200 {
		out = out[:200] + "..."
	}
	return out
}
