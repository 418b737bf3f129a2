package driven

import (
	"context"
	"time"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// CacheStore persists the synced corpus and its bookkeeping between
// runs. The cache is an availability optimisation, not a system of
// record: implementations must degrade gracefully, returning empty
// values on missing or corrupt state instead of failing reads.
// Implementations persist a bounded document prefix plus the total
// count, never the unbounded corpus.
type CacheStore interface {
	// LoadCorpus returns the cached document prefix and the total
	// document count at save time. Missing or corrupt state yields an
	// empty corpus, zero count and nil error.
	LoadCorpus(ctx context.Context) (domain.Corpus, int, error)

	// SaveCorpus persists a bounded prefix of the corpus, the total
	// count and the sync timestamp.
	SaveCorpus(ctx context.Context, corpus domain.Corpus) error

	// LoadLastSync returns the last successful sync time, or the zero
	// time when unknown.
	LoadLastSync(ctx context.Context) (time.Time, error)

	// LoadSeenIDs returns the set of document IDs the user has seen.
	LoadSeenIDs(ctx context.Context) (map[string]struct{}, error)

	// SaveSeenIDs persists the seen-ID set.
	SaveSeenIDs(ctx context.Context, ids map[string]struct{}) error

	// Clear removes all cached state for this store's namespace.
	Clear(ctx context.Context) error
}
