package services

import (
	"context"
	"sync"
	"time"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
	"github.com/lankadocs/gazette-cli/internal/logger"
	"github.com/lankadocs/gazette-cli/internal/normalise"
)

const (
	// loaderChunkSize is how many raw documents one normalisation
	// chunk holds.
	loaderChunkSize = 1000

	// loaderInitialSize is the prefix emitted as soon as the first
	// chunk lands, so consumers can render early.
	loaderInitialSize = 50

	// loaderResortEvery forces a full re-sort and re-emit every Nth
	// chunk; intermediate chunks only append.
	loaderResortEvery = 3
)

// ProgressiveLoader streams a large corpus in chunks. It keeps its own
// cache slice, separate from the sync engine's, so a partial load
// never corrupts the synced corpus. It implements
// driving.ProgressiveLoader.
type ProgressiveLoader struct {
	source   driven.DocumentSource
	cache    driven.CacheStore
	interval time.Duration

	mu   sync.Mutex
	busy bool
}

var _ driving.ProgressiveLoader = (*ProgressiveLoader)(nil)

// NewProgressiveLoader creates a loader over one source and a
// dedicated cache store.
func NewProgressiveLoader(source driven.DocumentSource, cache driven.CacheStore) *ProgressiveLoader {
	return &ProgressiveLoader{
		source:   source,
		cache:    cache,
		interval: domain.RefreshInterval,
	}
}

// Load starts a load and returns its update channel.
func (l *ProgressiveLoader) Load(ctx context.Context, force bool) (<-chan driving.LoaderUpdate, error) {
	l.mu.Lock()
	if l.busy {
		l.mu.Unlock()
		return nil, domain.ErrSyncInProgress
	}
	l.busy = true
	l.mu.Unlock()

	ch := make(chan driving.LoaderUpdate, 8)
	go func() {
		defer func() {
			close(ch)
			l.mu.Lock()
			l.busy = false
			l.mu.Unlock()
		}()
		l.run(ctx, force, ch)
	}()
	return ch, nil
}

// send delivers an update unless the consumer's context is gone.
// A consumer that stops draining must not strand the load goroutine.
func send(ctx context.Context, ch chan<- driving.LoaderUpdate, u driving.LoaderUpdate) bool {
	select {
	case ch <- u:
		return true
	case <-ctx.Done():
		return false
	}
}

func (l *ProgressiveLoader) run(ctx context.Context, force bool, ch chan<- driving.LoaderUpdate) {
	logger.Section("Progressive Load")

	if !force {
		if cached, total, _ := l.cache.LoadCorpus(ctx); len(cached) > 0 {
			lastSync, _ := l.cache.LoadLastSync(ctx)
			if !lastSync.IsZero() && time.Since(lastSync) <= l.interval {
				logger.Info("serving %d cached documents (of %d)", len(cached), total)
				if !send(ctx, ch, driving.LoaderUpdate{
					Docs:      cached.Prefix(loaderInitialSize),
					Percent:   50,
					Processed: len(cached.Prefix(loaderInitialSize)),
					Total:     total,
				}) {
					return
				}
				send(ctx, ch, driving.LoaderUpdate{
					Docs:      cached,
					Percent:   100,
					Processed: len(cached),
					Total:     total,
					Final:     true,
				})
				return
			}
		}
	}

	raws, err := l.source.Fetch(ctx)
	if err != nil {
		send(ctx, ch, driving.LoaderUpdate{Err: err, Final: true})
		return
	}
	total := len(raws)
	logger.Debug("fetched %d raw documents, normalising in chunks of %d", total, loaderChunkSize)

	// A single worker normalises chunks off the emitting goroutine.
	// Chunks go in and come out in order.
	type chunkOut struct {
		docs     []domain.Document
		rejected int
	}
	jobs := make(chan []domain.RawDocument)
	outs := make(chan chunkOut)

	go func() {
		defer close(outs)
		for chunk := range jobs {
			docs, rejected := normalise.All(chunk)
			outs <- chunkOut{docs: docs, rejected: rejected}
		}
	}()

	go func() {
		defer close(jobs)
		for start := 0; start < total; start += loaderChunkSize {
			end := start + loaderChunkSize
			if end > total {
				end = total
			}
			select {
			case jobs <- raws[start:end]:
			case <-ctx.Done():
				return
			}
		}
	}()

	var all []domain.Document
	processed, chunkNo := 0, 0
	gone := false
	for out := range outs {
		chunkNo++
		all = append(all, out.docs...)
		processed += len(out.docs) + out.rejected

		// A gone consumer still drains outs so the worker can finish.
		if gone {
			continue
		}

		percent := 10 + 90*float64(processed)/float64(max(total, 1))
		switch {
		case chunkNo == 1:
			// First chunk: a small sorted prefix, rendered
			// immediately.
			gone = !send(ctx, ch, driving.LoaderUpdate{
				Docs:      domain.NewCorpus(all).Prefix(loaderInitialSize),
				Percent:   percent,
				Processed: processed,
				Total:     total,
			})
		case chunkNo%loaderResortEvery == 0:
			gone = !send(ctx, ch, driving.LoaderUpdate{
				Docs:      domain.NewCorpus(all),
				Percent:   percent,
				Processed: processed,
				Total:     total,
			})
		}
	}

	if ctx.Err() != nil {
		send(ctx, ch, driving.LoaderUpdate{Err: ctx.Err(), Final: true})
		return
	}

	corpus := domain.NewCorpus(all)
	if err := l.cache.SaveCorpus(ctx, corpus); err != nil {
		// A half-written slice is worse than no slice.
		logger.Warn("failed to persist loaded corpus, clearing slice: %v", err)
		if clearErr := l.cache.Clear(ctx); clearErr != nil {
			logger.Warn("failed to clear cache slice: %v", clearErr)
		}
	}

	send(ctx, ch, driving.LoaderUpdate{
		Docs:      corpus,
		Percent:   100,
		Processed: processed,
		Total:     total,
		Final:     true,
	})
	logger.Info("progressive load complete: %d documents", len(corpus))
}
