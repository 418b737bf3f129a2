package driven

import (
	"context"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// SearchHit is one raw index hit: the document ID, its score and the
// merged highlight ranges per field.
type SearchHit struct {
	DocID      string
	Score      float64
	Highlights domain.Highlights
}

// SearchEngine is a full-text index over document titles, summaries
// and types.
type SearchEngine interface {
	// Build indexes the corpus, replacing any previous index. The
	// progress callback, if non-nil, receives percentages in [0,100].
	Build(ctx context.Context, corpus domain.Corpus, progress func(percent float64)) error

	// Fingerprint returns the fingerprint of the indexed corpus, or
	// the empty string when no index has been built.
	Fingerprint() string

	// Search runs a ranked query. Returns ErrIndexNotReady when no
	// index has been built.
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)

	// Close releases index resources.
	Close() error
}
