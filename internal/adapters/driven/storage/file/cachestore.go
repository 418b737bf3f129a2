// Package file persists the document cache as JSON files. Each piece
// of state (documents, sync timestamp, seen IDs) lives in its own file
// so a partial failure never corrupts the rest.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/logger"
)

// schemaVersion guards the documents file format. A mismatch reads as
// an empty cache.
const schemaVersion = 1

// DefaultPrefixLimit bounds how many documents are persisted.
const DefaultPrefixLimit = 100

// documentsFile is the on-disk corpus snapshot.
type documentsFile struct {
	SchemaVersion int           `json:"schema_version"`
	Documents     domain.Corpus `json:"documents"`
	TotalCount    int           `json:"total_count"`
}

// seenFile holds the seen-ID set.
type seenFile struct {
	IDs []string `json:"ids"`
}

// CacheStore is a file-backed driven.CacheStore. Reads degrade to
// empty values on missing or corrupt files; writes go through a
// temp-file rename so readers never see a torn file.
type CacheStore struct {
	mu          sync.Mutex
	dir         string
	namespace   string
	prefixLimit int
}

var _ driven.CacheStore = (*CacheStore)(nil)

// NewCacheStore creates a cache store rooted at dir. The namespace
// keys independent cache slices (e.g. "sync" and "loader") apart.
func NewCacheStore(dir, namespace string) (*CacheStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &CacheStore{dir: dir, namespace: namespace, prefixLimit: DefaultPrefixLimit}, nil
}

// SetPrefixLimit overrides the persisted-prefix bound. Values below 1
// are ignored.
func (s *CacheStore) SetPrefixLimit(n int) {
	if n > 0 {
		s.prefixLimit = n
	}
}

func (s *CacheStore) path(kind string) string {
	return filepath.Join(s.dir, s.namespace+"_"+kind+".json")
}

func (s *CacheStore) LoadCorpus(ctx context.Context) (domain.Corpus, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var f documentsFile
	if !s.readJSON(s.path("documents"), &f) {
		return nil, 0, nil
	}
	if f.SchemaVersion != schemaVersion {
		logger.Debug("cache schema %d != %d, ignoring", f.SchemaVersion, schemaVersion)
		return nil, 0, nil
	}
	return f.Documents, f.TotalCount, nil
}

func (s *CacheStore) SaveCorpus(ctx context.Context, corpus domain.Corpus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := documentsFile{
		SchemaVersion: schemaVersion,
		Documents:     corpus.Prefix(s.prefixLimit),
		TotalCount:    len(corpus),
	}
	if err := s.writeJSON(s.path("documents"), f); err != nil {
		return err
	}
	return s.writeJSON(s.path("last_sync"), time.Now())
}

func (s *CacheStore) LoadLastSync(ctx context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t time.Time
	if !s.readJSON(s.path("last_sync"), &t) {
		return time.Time{}, nil
	}
	return t, nil
}

func (s *CacheStore) LoadSeenIDs(ctx context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var f seenFile
	ids := make(map[string]struct{})
	if !s.readJSON(s.path("seen_ids"), &f) {
		return ids, nil
	}
	for _, id := range f.IDs {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (s *CacheStore) SaveSeenIDs(ctx context.Context, ids map[string]struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := seenFile{IDs: make([]string, 0, len(ids))}
	for id := range ids {
		f.IDs = append(f.IDs, id)
	}
	return s.writeJSON(s.path("seen_ids"), f)
}

func (s *CacheStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, kind := range []string{"documents", "last_sync", "seen_ids"} {
		if err := os.Remove(s.path(kind)); err != nil && !errors.Is(err, os.ErrNotExist) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// readJSON loads path into v. Missing or corrupt files read as absent.
func (s *CacheStore) readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("cache read %s: %v", path, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("cache file %s corrupt, ignoring: %v", path, err)
		return false
	}
	return true
}

// writeJSON writes v to path atomically via a temp file.
func (s *CacheStore) writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
