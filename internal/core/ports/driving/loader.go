package driving

import (
	"context"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// LoaderUpdate is one emission from the progressive loader: the best
// corpus known so far plus progress bookkeeping.
type LoaderUpdate struct {
	// Docs is the current (possibly partial) corpus, sorted newest
	// first.
	Docs domain.Corpus

	// Percent is overall progress in [0,100].
	Percent float64

	// Processed and Total count raw documents.
	Processed int
	Total     int

	// Final marks the last update of a load.
	Final bool

	// Err is set on a terminal failure; no further updates follow.
	Err error
}

// ProgressiveLoader streams a large corpus in chunks so consumers can
// render early results before the full payload is normalised.
type ProgressiveLoader interface {
	// Load starts a load and returns its update channel. The channel
	// closes after the final update. Returns ErrSyncInProgress when a
	// load is already running.
	Load(ctx context.Context, force bool) (<-chan LoaderUpdate, error)
}
