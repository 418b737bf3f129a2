// Package local reads published document snapshots from a directory of
// generated JSON files, one subdirectory per category.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/lankadocs/gazette-cli/internal/adapters/driven/source"
	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/logger"
)

// DefaultCategories are the snapshot subdirectories read in order.
var DefaultCategories = []string{
	"gazettes",
	"extra-gazettes",
	"acts",
	"bills",
	"forms",
	"notices",
	"hf-acts-full",
	"hf-acts-chunks",
	"github-acts",
	"github-extraordinary-gazettes",
	"github-bills",
	"all",
}

// snapshotFile is the per-category payload file name.
const snapshotFile = "latest.json"

// Source reads snapshots from <dir>/<category>/latest.json and merges
// them into one raw payload. Missing category files are skipped.
type Source struct {
	dir        string
	categories []string
}

var _ driven.WatchableSource = (*Source)(nil)

// New creates a local snapshot source over dir. With no categories the
// default set is read.
func New(dir string, categories ...string) *Source {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	return &Source{dir: dir, categories: categories}
}

// Name identifies the source in logs and sync state.
func (s *Source) Name() string {
	return "local:" + s.dir
}

// Fetch merges every category snapshot into one raw document list.
// Duplicates across categories are fine; the corpus deduplicates.
func (s *Source) Fetch(ctx context.Context) ([]domain.RawDocument, error) {
	var all []domain.RawDocument
	read := 0
	for _, category := range s.categories {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		path := filepath.Join(s.dir, category, snapshotFile)
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				logger.Warn("snapshot %s unreadable: %v", path, err)
			}
			continue
		}

		docs, err := source.DecodeRawDocuments(data)
		if err != nil {
			logger.Warn("snapshot %s malformed: %v", path, err)
			continue
		}
		logger.Debug("snapshot %s: %d documents", path, len(docs))
		all = append(all, docs...)
		read++
	}

	if read == 0 {
		return nil, fmt.Errorf("no readable snapshots under %s", s.dir)
	}
	return all, nil
}

// Count reports 0: counting would read every snapshot, which is no
// cheaper than Fetch.
func (s *Source) Count(ctx context.Context) (int, error) {
	return 0, nil
}

// Watch signals whenever a snapshot file changes. The watcher covers
// the snapshot root and each category directory; events for other
// files are ignored.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}
	for _, category := range s.categories {
		dir := filepath.Join(s.dir, category)
		if _, statErr := os.Stat(dir); statErr != nil {
			continue
		}
		if addErr := watcher.Add(dir); addErr != nil {
			logger.Debug("watch %s: %v", dir, addErr)
		}
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasSuffix(event.Name, ".json") {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				logger.Debug("snapshot changed: %s", event.Name)
				select {
				case ch <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error: %v", err)
			}
		}
	}()
	return ch, nil
}
