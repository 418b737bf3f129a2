package driving

import (
	"context"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// SearchService provides ranked full-text search over the corpus.
type SearchService interface {
	// SetCorpus replaces the searchable corpus. The index is rebuilt
	// lazily when a query needs it.
	SetCorpus(corpus domain.Corpus)

	// EnsureIndex builds the index for the current corpus if it is
	// not already built or building. With wait true the call blocks
	// until the build finishes; otherwise the build runs in the
	// background.
	EnsureIndex(ctx context.Context, wait bool) error

	// Indexing reports whether a build is running and its progress
	// percentage.
	Indexing() (building bool, percent float64)

	// Search runs a query. Empty or whitespace-only queries return an
	// empty result. While the index is unavailable results come from
	// a substring scan without ranking or highlights.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
