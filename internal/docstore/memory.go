package docstore

import (
	"context"
	"sort"
	"strings"
)

// MemoryStore is an in-memory Searcher backed by a fixed chunk slice.
// It scores by token overlap between the query and each chunk, which is
// enough for tests and small offline corpora.
type MemoryStore struct {
	chunks []Chunk
}

// NewMemoryStore creates a store over the given chunks. The slice is not
// copied; callers must not mutate it afterwards.
func NewMemoryStore(chunks []Chunk) *MemoryStore {
	return &MemoryStore{chunks: chunks}
}

// Search returns up to topK chunks ordered by descending token overlap
// with the query. A query that exactly names a resource matches all of
// that resource's chunks first.
func (s *MemoryStore) Search(ctx context.Context, query string, topK int) ([]Chunk, error) {
	type scored struct {
		chunk Chunk
		score int
		idx   int
	}
	terms := strings.Fields(strings.ToLower(query))
	var results []scored
	for i, c := range s.chunks {
		score := 0
		if c.Resource == query {
			score += 100
		}
		text := strings.ToLower(c.Text + " " + c.Resource)
		for _, t := range terms {
			if strings.Contains(text, t) {
				score++
			}
		}
		if score > 0 {
			results = append(results, scored{chunk: c, score: score, idx: i})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].idx < results[j].idx
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	out := make([]Chunk, len(results))
	for i, r := range results {
		out[i] = r.chunk
	}
	return out, nil
}

// Resources returns the distinct resource identifiers, sorted ascending.
func (s *MemoryStore) Resources(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	for _, c := range s.chunks {
		if c.Resource != "" {
			seen[c.Resource] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
