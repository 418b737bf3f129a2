package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/logger"
)

// cacheSchemaVersion guards the documents payload format. A mismatch
// reads as an empty cache.
const cacheSchemaVersion = 1

// cachePrefixLimit bounds how many documents are persisted per
// namespace.
const cachePrefixLimit = 100

// cacheStore implements driven.CacheStore over the cache_entries table.
type cacheStore struct {
	store     *Store
	namespace string
}

var _ driven.CacheStore = (*cacheStore)(nil)

// documentsPayload is the JSON value stored under the "documents" key.
type documentsPayload struct {
	SchemaVersion int           `json:"schema_version"`
	Documents     domain.Corpus `json:"documents"`
	TotalCount    int           `json:"total_count"`
}

func (s *cacheStore) LoadCorpus(ctx context.Context) (domain.Corpus, int, error) {
	value, ok := s.get(ctx, "documents")
	if !ok {
		return nil, 0, nil
	}

	var payload documentsPayload
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		logger.Warn("cache entry corrupt, ignoring: %v", err)
		return nil, 0, nil
	}
	if payload.SchemaVersion != cacheSchemaVersion {
		logger.Debug("cache schema %d != %d, ignoring", payload.SchemaVersion, cacheSchemaVersion)
		return nil, 0, nil
	}
	return payload.Documents, payload.TotalCount, nil
}

func (s *cacheStore) SaveCorpus(ctx context.Context, corpus domain.Corpus) error {
	payload := documentsPayload{
		SchemaVersion: cacheSchemaVersion,
		Documents:     corpus.Prefix(cachePrefixLimit),
		TotalCount:    len(corpus),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding corpus: %w", err)
	}

	if err := s.set(ctx, "documents", string(data)); err != nil {
		return err
	}
	return s.set(ctx, "last_sync", time.Now().UTC().Format(time.RFC3339))
}

func (s *cacheStore) LoadLastSync(ctx context.Context) (time.Time, error) {
	value, ok := s.get(ctx, "last_sync")
	if !ok {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		logger.Warn("cache last_sync corrupt, ignoring: %v", err)
		return time.Time{}, nil
	}
	return t, nil
}

func (s *cacheStore) LoadSeenIDs(ctx context.Context) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	value, ok := s.get(ctx, "seen_ids")
	if !ok {
		return ids, nil
	}

	var list []string
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		logger.Warn("cache seen_ids corrupt, ignoring: %v", err)
		return ids, nil
	}
	for _, id := range list {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (s *cacheStore) SaveSeenIDs(ctx context.Context, ids map[string]struct{}) error {
	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding seen ids: %w", err)
	}
	return s.set(ctx, "seen_ids", string(data))
}

func (s *cacheStore) Clear(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM cache_entries WHERE namespace = ?", s.namespace)
	if err != nil {
		return fmt.Errorf("clearing cache namespace %s: %w", s.namespace, err)
	}
	return nil
}

// get reads one cache entry. Absent or unreadable entries read as
// missing.
func (s *cacheStore) get(ctx context.Context, key string) (string, bool) {
	var value string
	err := s.store.db.QueryRowContext(ctx,
		"SELECT value FROM cache_entries WHERE namespace = ? AND key = ?",
		s.namespace, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Warn("cache read %s/%s: %v", s.namespace, key, err)
		}
		return "", false
	}
	return value, true
}

func (s *cacheStore) set(ctx context.Context, key, value string) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO cache_entries (namespace, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, s.namespace, key, value)
	if err != nil {
		return fmt.Errorf("writing cache entry %s/%s: %w", s.namespace, key, err)
	}
	return nil
}
