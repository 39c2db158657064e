// Package resolver maps a free-text infrastructure request to exactly one
// canonical resource identifier from the known universe. Resolution is a
// fixed-order fall-through over two strategies: ask the completion service
// to pick an identifier, then deterministic lexical matching when that
// fails or answers outside the known set.
package resolver

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"terragen/internal/llm"
)

// ErrNoResources is returned when the known-identifier universe is empty.
// With at least one identifier the lexical fallback always produces a
// result, so this is the only hard failure.
var ErrNoResources = errors.New("resolver: no known resource identifiers")

// similarityCutoff is the accept threshold for fuzzy lexical matches.
// Below it the query and identifier are considered unrelated and the
// best-scoring identifier overall is still returned by Resolve's final
// fall-through, keeping resolution total.
const similarityCutoff = 0.6

// strategy attempts to resolve a query against the known set. ok=false
// means fall through to the next strategy.
type strategy interface {
	resolve(ctx context.Context, query string, known []string) (id string, ok bool)
}

// Resolver composes the primary and fallback strategies in fixed order.
type Resolver struct {
	strategies []strategy
}

// New creates a resolver using completer for the primary strategy.
func New(completer llm.Completer) *Resolver {
	return &Resolver{
		strategies: []strategy{
			&llmStrategy{completer: completer},
			&lexicalStrategy{},
		},
	}
}

// Resolve returns the canonical identifier for query. known must be the
// closed identifier universe; resolution fails only when it is empty.
func (r *Resolver) Resolve(ctx context.Context, query string, known []string) (string, error) {
	if len(known) == 0 {
		return "", ErrNoResources
	}
	for _, s := range r.strategies {
		if id, ok := s.resolve(ctx, query, known); ok {
			return id, nil
		}
	}
	// The lexical strategy rejects only when every score is below the
	// cutoff. Under-determination is not a failure: take the best score
	// outright, tie-broken lexicographically.
	id, _ := bestScore(strings.ToLower(strings.TrimSpace(query)), known)
	return id, nil
}

// llmStrategy asks the completion service to emit one identifier from the
// known set and accepts the answer only on exact membership.
type llmStrategy struct {
	completer llm.Completer
}

func (s *llmStrategy) resolve(ctx context.Context, query string, known []string) (string, bool) {
	if s.completer == nil {
		return "", false
	}
	prompt := "You map a user's natural-language request to one of the exact resource names listed below.\n" +
		"Return ONLY a single exact resource name that appears in the list. If unsure, pick the best match.\n\n" +
		"User: \"" + query + "\"\nResources:\n" + strings.Join(known, "\n")

	answer, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return "", false
	}
	answer = strings.TrimSpace(answer)
	if fields := strings.Fields(answer); len(fields) > 0 {
		answer = fields[0]
	}
	for _, id := range known {
		if answer == id {
			return id, true
		}
	}
	return "", false
}

// lexicalStrategy matches without any collaborator: containment first,
// then fuzzy similarity, then a retry with the provider prefix the way
// users tend to omit it ("instance" for "cloudstack_instance").
type lexicalStrategy struct{}

func (s *lexicalStrategy) resolve(_ context.Context, query string, known []string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	for _, id := range sorted(known) {
		if strings.ToLower(id) == q {
			return id, true
		}
	}
	for _, id := range sorted(known) {
		lid := strings.ToLower(id)
		if strings.Contains(lid, q) || strings.Contains(q, lid) {
			return id, true
		}
	}
	if id, score := bestScore(q, known); score >= similarityCutoff {
		return id, true
	}
	if !strings.HasPrefix(q, "cloudstack_") {
		if id, score := bestScore("cloudstack_"+q, known); score >= similarityCutoff {
			return id, true
		}
	}
	return "", false
}

// bestScore returns the best-matching identifier and its score. Ties are
// broken by the lexicographically smallest identifier.
func bestScore(query string, known []string) (string, float64) {
	best, bestScore := "", -1.0
	for _, id := range sorted(known) {
		score := similarity(query, strings.ToLower(id))
		if score > bestScore {
			best, bestScore = id, score
		}
	}
	return best, bestScore
}

// similarity scores two strings as the max of token-overlap ratio and
// normalized Levenshtein similarity. Token overlap catches multi-word
// queries; edit distance catches near-miss spellings.
func similarity(a, b string) float64 {
	lev := levenshtein.Similarity(a, b, levenshtein.NewParams())

	at := tokens(a)
	bt := tokens(b)
	if len(at) == 0 || len(bt) == 0 {
		return lev
	}
	inB := make(map[string]bool, len(bt))
	for _, t := range bt {
		inB[t] = true
	}
	union := make(map[string]bool, len(at)+len(bt))
	shared := 0
	for _, t := range at {
		if inB[t] {
			shared++
		}
		union[t] = true
	}
	for _, t := range bt {
		union[t] = true
	}
	overlap := float64(shared) / float64(len(union))

	if overlap > lev {
		return overlap
	}
	return lev
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

func sorted(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}
