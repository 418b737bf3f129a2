package driving

import (
	"context"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// SyncService keeps the local corpus in step with the published data
// sources and tracks which documents the user has seen.
type SyncService interface {
	// Sync brings the corpus up to date. With force false a fresh
	// cache is served as-is (after a cheap remote count probe); with
	// force true the sources are always fetched. A call that finds a
	// sync already running coalesces into it and returns nil.
	Sync(ctx context.Context, force bool) error

	// State returns a copy of the last published sync state.
	State() domain.SyncState

	// Events returns the sync progress stream. Events are dropped,
	// not blocked on, when the consumer falls behind.
	Events() <-chan domain.SyncProgress

	// MarkSeen records document IDs as seen. Idempotent.
	MarkSeen(ctx context.Context, ids []string) error

	// MarkAllSeen records every document in the current corpus as seen.
	MarkAllSeen(ctx context.Context) error

	// Start begins periodic background re-syncs and source watching.
	// It returns immediately; Stop ends the background work.
	Start(ctx context.Context) error

	// Stop halts periodic re-syncs and waits for them to finish.
	Stop() error
}
