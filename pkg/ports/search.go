package ports

import "context"

// SearchResult is one hit from a web-search provider. Ordering follows
// provider relevance; no other guarantee is made.
type SearchResult struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Searcher is the web-search capability consumed by resource gathering.
type Searcher interface {
	// Search returns up to limit results for the query.
	// Failures are reported as errors wrapping domain.ErrSearchProvider.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
