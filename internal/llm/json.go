package llm

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no parseable JSON could be recovered from a
// completion, even after substring extraction.
var ErrNoJSON = errors.New("llm: no parseable JSON in completion")

var jsonSubstring = regexp.MustCompile(`(?s)(\{.*\}|\[.*\])`)

// CompleteJSON asks for a completion and decodes it into out. Models wrap
// JSON in prose or fences often enough that a direct parse failure falls
// back to extracting the first JSON-looking substring.
func CompleteJSON(ctx context.Context, c Completer, prompt string, out any) error {
	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if json.Unmarshal([]byte(raw), out) == nil {
		return nil
	}
	if m := jsonSubstring.FindString(raw); m != "" {
		if json.Unmarshal([]byte(m), out) == nil {
			return nil
		}
	}
	return ErrNoJSON
}
