// Package memory provides in-memory driven adapters for tests and
// ephemeral runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
)

// cachePrefixLimit mirrors the persistent adapters' bounded-prefix
// policy so tests see the same truncation behaviour.
const cachePrefixLimit = 100

// CacheStore is an in-memory driven.CacheStore.
type CacheStore struct {
	mu       sync.Mutex
	corpus   domain.Corpus
	total    int
	lastSync time.Time
	seen     map[string]struct{}

	// FailSaves makes every write return an error, for testing
	// degraded-storage paths.
	FailSaves bool
}

var _ driven.CacheStore = (*CacheStore)(nil)

// NewCacheStore creates an empty in-memory cache store.
func NewCacheStore() *CacheStore {
	return &CacheStore{seen: make(map[string]struct{})}
}

func (s *CacheStore) LoadCorpus(ctx context.Context) (domain.Corpus, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(domain.Corpus, len(s.corpus))
	copy(out, s.corpus)
	return out, s.total, nil
}

func (s *CacheStore) SaveCorpus(ctx context.Context, corpus domain.Corpus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves {
		return domain.ErrInvalidInput
	}
	prefix := corpus.Prefix(cachePrefixLimit)
	s.corpus = make(domain.Corpus, len(prefix))
	copy(s.corpus, prefix)
	s.total = len(corpus)
	s.lastSync = time.Now()
	return nil
}

func (s *CacheStore) LoadLastSync(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync, nil
}

// SetLastSync overrides the sync timestamp, for staleness tests.
func (s *CacheStore) SetLastSync(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSync = t
}

func (s *CacheStore) LoadSeenIDs(ctx context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{}, len(s.seen))
	for id := range s.seen {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *CacheStore) SaveSeenIDs(ctx context.Context, ids map[string]struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves {
		return domain.ErrInvalidInput
	}
	s.seen = make(map[string]struct{}, len(ids))
	for id := range ids {
		s.seen[id] = struct{}{}
	}
	return nil
}

func (s *CacheStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = nil
	s.total = 0
	s.lastSync = time.Time{}
	s.seen = make(map[string]struct{})
	return nil
}
