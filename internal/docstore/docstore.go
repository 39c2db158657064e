// Package docstore provides read-only access to the provider documentation
// corpus. The vector store itself is an external service; this package only
// speaks its query surface and exposes it behind the Searcher interface so
// tests can substitute an in-memory fixture corpus.
package docstore

import "context"

// Chunk is one retrieved document fragment with the schema metadata that
// was embedded alongside it at ingestion time.
type Chunk struct {
	Text           string
	Resource       string
	RequiredFields []string
}

// Searcher is the retrieval contract. Implementations are safe for
// concurrent readers; no write path is exposed.
type Searcher interface {
	// Search returns up to topK chunks relevant to query, most relevant
	// first. topK <= 0 means no limit.
	Search(ctx context.Context, query string, topK int) ([]Chunk, error)

	// Resources returns the closed universe of known resource identifiers,
	// sorted ascending.
	Resources(ctx context.Context) ([]string, error)
}
