package driven

import (
	"context"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// DocumentSource fetches raw documents from one published data source.
// Sources are tried in priority order by the sync engine; a failing or
// empty source is skipped, not fatal.
type DocumentSource interface {
	// Name identifies the source in logs and sync state.
	Name() string

	// Fetch retrieves the full raw document payload.
	Fetch(ctx context.Context) ([]domain.RawDocument, error)

	// Count is a lightweight probe of how many documents the source
	// currently publishes, used for stale-while-revalidate checks.
	// Sources that cannot probe cheaply return 0 and nil.
	Count(ctx context.Context) (int, error)
}

// WatchableSource is implemented by sources that can report when their
// underlying data changes, such as a local snapshot directory.
type WatchableSource interface {
	DocumentSource

	// Watch returns a channel that receives a signal whenever the
	// source data changes. The channel closes when ctx is cancelled.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
