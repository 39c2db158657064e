// Package output persists generated configurations to disk.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

const maxNameLen = 64

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Filename returns the file name used for a generated configuration,
// derived from the resource type and the user's logical name.
func Filename(resource, logicalName string) string {
	safe := unsafeChars.ReplaceAllString(logicalName, "_")
	if safe == "" {
		safe = "resource"
	}
	if len(safe) > maxNameLen {
		safe = safe[:maxNameLen]
	}
	return fmt.Sprintf("terraform_%s_%s.tf", resource, safe)
}

// Write saves hclText under dir, creating the directory as needed, and
// returns the full path of the written file.
func Write(dir, resource, logicalName, hclText string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, Filename(resource, logicalName))
	if err := os.WriteFile(path, []byte(hclText), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
