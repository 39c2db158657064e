package generator

import (
	"regexp"
	"strings"
)

var (
	fenceOpenRe  = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")
	blockStarter = regexp.MustCompile(`(?m)^\s*(resource|terraform|provider|data|variable|output|module|locals)\b`)
)

// CleanOutput strips the markdown wrapping and surrounding prose that
// completion services habitually add around generated HCL, leaving the bare
// configuration text.
func CleanOutput(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}

	// Fenced block: keep only what is inside the first fence pair.
	if loc := fenceOpenRe.FindStringIndex(s); loc != nil {
		inner := s[loc[1]:]
		if end := strings.Index(inner, "```"); end >= 0 {
			inner = inner[:end]
		}
		s = strings.TrimSpace(inner)
	}

	// Sentinel lines pass through untouched so callers can detect them.
	if strings.HasPrefix(s, missingRequiredPrefix) {
		return firstLine(s)
	}

	// Discard any prose before the first HCL block.
	if loc := blockStarter.FindStringIndex(s); loc != nil && loc[0] > 0 {
		s = strings.TrimSpace(s[loc[0]:])
	}

	// Stray backticks left over from partial fences.
	s = strings.Trim(s, "`")
	return strings.TrimSpace(s)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
