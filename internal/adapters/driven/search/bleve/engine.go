// Package bleve implements the full-text search engine over the
// document corpus using an in-memory Bleve index.
package bleve

import (
	"context"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	blevesearch "github.com/blevesearch/bleve/v2/search"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/logger"
)

// indexBatchSize controls batch flushes and progress granularity
// during a build.
const indexBatchSize = 500

// indexedDoc is the shape stored in the index. Only the searchable
// fields go in; results are joined back to the corpus by ID.
type indexedDoc struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Type    string `json:"type"`
}

// Engine is an in-memory Bleve index over title, summary and type.
// Rebuilds replace the index wholesale; the fingerprint records which
// corpus the current index covers.
type Engine struct {
	mu          sync.RWMutex
	index       bleve.Index
	fingerprint string
}

var _ driven.SearchEngine = (*Engine)(nil)

// NewEngine creates an engine with no index. Build must run before
// Search.
func NewEngine() *Engine {
	return &Engine{}
}

func buildMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Store = false
	text.IncludeTermVectors = true // term vectors carry match offsets

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("summary", text)
	doc.AddFieldMappingsAt("type", text)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Build indexes the corpus, replacing any previous index.
func (e *Engine) Build(ctx context.Context, corpus domain.Corpus, progress func(percent float64)) error {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	batch := index.NewBatch()
	for i := range corpus {
		if ctx.Err() != nil {
			index.Close()
			return ctx.Err()
		}

		d := &corpus[i]
		err := batch.Index(d.ID, indexedDoc{
			Title:   d.Title,
			Summary: d.Summary,
			Type:    d.DisplayType,
		})
		if err != nil {
			index.Close()
			return fmt.Errorf("index document %s: %w", d.ID, err)
		}

		if batch.Size() >= indexBatchSize {
			if err := index.Batch(batch); err != nil {
				index.Close()
				return fmt.Errorf("flush batch: %w", err)
			}
			batch = index.NewBatch()
			if progress != nil {
				progress(100 * float64(i+1) / float64(len(corpus)))
			}
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			index.Close()
			return fmt.Errorf("flush batch: %w", err)
		}
	}
	if progress != nil {
		progress(100)
	}

	e.mu.Lock()
	old := e.index
	e.index = index
	e.fingerprint = corpus.Fingerprint()
	e.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			logger.Debug("close previous index: %v", err)
		}
	}
	logger.Debug("indexed %d documents", len(corpus))
	return nil
}

// Fingerprint returns the fingerprint of the indexed corpus.
func (e *Engine) Fingerprint() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fingerprint
}

// Search runs a ranked match query and converts Bleve's term locations
// into merged highlight ranges.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]driven.SearchHit, error) {
	e.mu.RLock()
	index := e.index
	e.mu.RUnlock()
	if index == nil {
		return nil, domain.ErrIndexNotReady
	}

	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.IncludeLocations = true

	res, err := index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]driven.SearchHit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		hits = append(hits, driven.SearchHit{
			DocID:      hit.ID,
			Score:      hit.Score,
			Highlights: convertLocations(hit.Locations),
		})
	}
	return hits, nil
}

// convertLocations flattens Bleve's field/term location map into
// per-field merged byte ranges.
func convertLocations(locations blevesearch.FieldTermLocationMap) domain.Highlights {
	var h domain.Highlights
	for field, terms := range locations {
		var ranges []domain.HighlightRange
		for _, locs := range terms {
			for _, loc := range locs {
				ranges = append(ranges, domain.HighlightRange{
					Start:  int(loc.Start),
					Length: int(loc.End - loc.Start),
				})
			}
		}
		merged := domain.MergeRanges(ranges)
		switch field {
		case "title":
			h.Title = merged
		case "summary":
			h.Summary = merged
		case "type":
			h.Type = merged
		}
	}
	return h
}

// Close releases the index.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index == nil {
		return nil
	}
	err := e.index.Close()
	e.index = nil
	e.fingerprint = ""
	return err
}
