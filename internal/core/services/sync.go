package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
	"github.com/lankadocs/gazette-cli/internal/logger"
	"github.com/lankadocs/gazette-cli/internal/normalise"
)

// progressBufferSize is the sync event channel capacity. Events beyond
// a slow consumer's backlog are dropped, never blocked on.
const progressBufferSize = 64

// normaliseBatchSize controls how often normalisation progress is
// reported.
const normaliseBatchSize = 1000

// SyncEngine keeps the local corpus in step with the published data
// sources. It implements driving.SyncService.
type SyncEngine struct {
	sources    []driven.DocumentSource
	cache      driven.CacheStore
	provenance driven.ProvenanceChecker
	interval   time.Duration

	inFlight sync.Mutex // held for the duration of one sync cycle
	busy     bool       // guarded by mu, true while a cycle runs

	mu    sync.RWMutex
	state domain.SyncState

	events chan domain.SyncProgress

	runMu  sync.Mutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

var _ driving.SyncService = (*SyncEngine)(nil)

// NewSyncEngine creates a sync engine. Sources are tried in the given
// priority order. The provenance checker may be nil.
func NewSyncEngine(
	sources []driven.DocumentSource,
	cache driven.CacheStore,
	provenance driven.ProvenanceChecker,
) *SyncEngine {
	return &SyncEngine{
		sources:    sources,
		cache:      cache,
		provenance: provenance,
		interval:   domain.RefreshInterval,
		state:      domain.SyncState{Phase: domain.SyncIdle},
		events:     make(chan domain.SyncProgress, progressBufferSize),
	}
}

// SetInterval overrides the staleness window. Zero or negative values
// are ignored.
func (e *SyncEngine) SetInterval(d time.Duration) {
	if d > 0 {
		e.interval = d
	}
}

// State returns a copy of the last published sync state.
func (e *SyncEngine) State() domain.SyncState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state := e.state
	state.NewIDs = append([]string(nil), e.state.NewIDs...)
	return state
}

// Events returns the sync progress stream.
func (e *SyncEngine) Events() <-chan domain.SyncProgress {
	return e.events
}

// Sync brings the corpus up to date. Concurrent calls coalesce: the
// second caller returns nil immediately while the first cycle runs.
func (e *SyncEngine) Sync(ctx context.Context, force bool) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		logger.Debug("sync already running, coalescing")
		return nil
	}
	e.busy = true
	e.mu.Unlock()

	e.inFlight.Lock()
	defer func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
		e.inFlight.Unlock()
	}()

	return e.runCycle(ctx, force)
}

func (e *SyncEngine) runCycle(ctx context.Context, force bool) error {
	logger.Section("Document Sync")
	e.setPhase(domain.SyncRunning)
	e.emit("Starting sync...", 0, 0, 0)

	lastSync, _ := e.cache.LoadLastSync(ctx)
	cached, cachedTotal, _ := e.cache.LoadCorpus(ctx)

	stale := force || lastSync.IsZero() || len(cached) == 0 ||
		time.Since(lastSync) > e.interval
	if !stale {
		logger.Info("cache is fresh (%d documents, synced %s ago)",
			cachedTotal, time.Since(lastSync).Round(time.Second))
		e.publishSuccess(ctx, cached, cachedTotal, lastSync, "cache", domain.SyncStats{})
		e.emit("Using cached data", 100, cachedTotal, cachedTotal)

		// Stale-while-revalidate: a cheap count probe decides whether
		// the fresh cache is actually behind the remote.
		remote := e.probeCount(ctx)
		if remote <= cachedTotal {
			return nil
		}
		logger.Info("%d new documents upstream, refreshing", remote-cachedTotal)
		e.emit("New documents available, refreshing...", 0, cachedTotal, remote)
	}

	corpus, source, stats, err := e.fetchAndNormalise(ctx)
	if err != nil {
		e.publishError(err)
		e.emit("Sync failed", 100, 0, 0)
		return err
	}

	if saveErr := e.cache.SaveCorpus(ctx, corpus); saveErr != nil {
		logger.Warn("failed to persist corpus: %v", saveErr)
	}

	e.publishSuccess(ctx, corpus, len(corpus), time.Now(), source, stats)
	e.emit("Sync complete", 100, stats.Normalised, stats.Fetched)
	logger.Info("sync complete: %d fetched, %d normalised, %d rejected (source %s)",
		stats.Fetched, stats.Normalised, stats.Rejected, source)
	return nil
}

// fetchAndNormalise tries each source in priority order and normalises
// the first non-empty payload.
func (e *SyncEngine) fetchAndNormalise(ctx context.Context) (domain.Corpus, string, domain.SyncStats, error) {
	var lastErr error
	for _, src := range e.sources {
		if ctx.Err() != nil {
			return nil, "", domain.SyncStats{}, ctx.Err()
		}

		e.emit(fmt.Sprintf("Fetching from %s...", src.Name()), 10, 0, 0)
		raws, err := src.Fetch(ctx)
		if err != nil {
			logger.Warn("source %s failed: %v", src.Name(), err)
			lastErr = err
			continue
		}
		if len(raws) == 0 {
			logger.Debug("source %s returned no documents", src.Name())
			continue
		}

		logger.Debug("source %s returned %d raw documents", src.Name(), len(raws))
		docs, stats := e.normaliseAll(raws)
		corpus := domain.NewCorpus(docs)
		return corpus, src.Name(), stats, nil
	}

	if lastErr != nil {
		return nil, "", domain.SyncStats{}, fmt.Errorf("%w: %w", domain.ErrAllSourcesFailed, lastErr)
	}
	return nil, "", domain.SyncStats{}, domain.ErrAllSourcesFailed
}

func (e *SyncEngine) normaliseAll(raws []domain.RawDocument) ([]domain.Document, domain.SyncStats) {
	stats := domain.SyncStats{Fetched: len(raws)}
	docs := make([]domain.Document, 0, len(raws))

	for start := 0; start < len(raws); start += normaliseBatchSize {
		end := start + normaliseBatchSize
		if end > len(raws) {
			end = len(raws)
		}
		batch, rejected := normalise.All(raws[start:end])
		docs = append(docs, batch...)
		stats.Rejected += rejected

		percent := 10 + 85*float64(end)/float64(len(raws))
		e.emit(fmt.Sprintf("Processing %d of %d documents...", end, len(raws)),
			percent, end, len(raws))
	}

	stats.Normalised = len(docs)
	return docs, stats
}

// probeCount asks the sources how many documents exist upstream.
// The first source with a usable answer wins; 0 means unknown.
func (e *SyncEngine) probeCount(ctx context.Context) int {
	for _, src := range e.sources {
		n, err := src.Count(ctx)
		if err != nil {
			logger.Debug("count probe on %s failed: %v", src.Name(), err)
			continue
		}
		if n > 0 {
			return n
		}
	}
	return 0
}

func (e *SyncEngine) publishSuccess(
	ctx context.Context,
	corpus domain.Corpus,
	total int,
	syncedAt time.Time,
	source string,
	stats domain.SyncStats,
) {
	seen, _ := e.cache.LoadSeenIDs(ctx)
	newIDs := corpus.NewSince(seen, domain.MaxNewDocuments)

	var prov *domain.Provenance
	if e.provenance != nil {
		p, err := e.provenance.Latest(ctx)
		if err != nil {
			logger.Debug("provenance lookup failed: %v", err)
		} else {
			prov = p
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = domain.SyncState{
		Phase:        domain.SyncSuccess,
		Corpus:       corpus,
		TotalCount:   total,
		LastSyncedAt: syncedAt,
		NewIDs:       newIDs,
		Stats:        stats,
		Provenance:   prov,
		Source:       source,
	}
}

func (e *SyncEngine) publishError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Phase = domain.SyncError
	e.state.Err = err.Error()
}

func (e *SyncEngine) setPhase(phase domain.SyncPhase) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Phase = phase
	e.state.Err = ""
}

// emit publishes a progress event without blocking. A full buffer
// drops the event.
func (e *SyncEngine) emit(stage string, percent float64, processed, total int) {
	select {
	case e.events <- domain.SyncProgress{
		Stage:     stage,
		Percent:   percent,
		Processed: processed,
		Total:     total,
	}:
	default:
	}
}

// MarkSeen records document IDs as seen and recomputes the new-ID set.
func (e *SyncEngine) MarkSeen(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	seen, err := e.cache.LoadSeenIDs(ctx)
	if err != nil {
		return fmt.Errorf("load seen ids: %w", err)
	}
	if seen == nil {
		seen = make(map[string]struct{}, len(ids))
	}
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	if err := e.cache.SaveSeenIDs(ctx, seen); err != nil {
		return fmt.Errorf("save seen ids: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.NewIDs = e.state.Corpus.NewSince(seen, domain.MaxNewDocuments)
	return nil
}

// MarkAllSeen records every document in the current corpus as seen.
func (e *SyncEngine) MarkAllSeen(ctx context.Context) error {
	e.mu.RLock()
	ids := e.state.Corpus.IDs()
	e.mu.RUnlock()
	return e.MarkSeen(ctx, ids)
}

// Start launches the background loop: an immediate sync, periodic
// re-syncs every interval, and re-syncs on source change signals.
func (e *SyncEngine) Start(ctx context.Context) error {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	if e.stopCh != nil {
		return nil // already running
	}
	e.stopCh = make(chan struct{})

	var changes <-chan struct{}
	for _, src := range e.sources {
		if w, ok := src.(driven.WatchableSource); ok {
			ch, err := w.Watch(ctx)
			if err != nil {
				logger.Warn("watch on %s failed: %v", src.Name(), err)
				continue
			}
			logger.Debug("watching source %s for changes", src.Name())
			changes = ch
			break
		}
	}

	e.wg.Add(1)
	go e.runLoop(ctx, changes)
	return nil
}

func (e *SyncEngine) runLoop(ctx context.Context, changes <-chan struct{}) {
	defer e.wg.Done()

	if err := e.Sync(ctx, false); err != nil {
		logger.Warn("initial sync failed: %v", err)
	}

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case <-ticker.C:
			if err := e.Sync(ctx, false); err != nil {
				logger.Warn("periodic sync failed: %v", err)
			}
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			logger.Info("source data changed, re-syncing")
			if err := e.Sync(ctx, true); err != nil {
				logger.Warn("change-triggered sync failed: %v", err)
			}
		}
	}
}

// Stop halts the background loop and waits for it to finish.
func (e *SyncEngine) Stop() error {
	e.runMu.Lock()
	if e.stopCh == nil {
		e.runMu.Unlock()
		return nil
	}
	close(e.stopCh)
	e.stopCh = nil
	e.runMu.Unlock()

	e.wg.Wait()
	return nil
}
