package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
	"github.com/lankadocs/gazette-cli/internal/logger"
)

// defaultSearchLimit applies when SearchOptions.Limit is unset.
const defaultSearchLimit = 50

// SearchService answers ranked queries over the corpus, building the
// index lazily and falling back to a substring scan while the index is
// unavailable. It implements driving.SearchService.
type SearchService struct {
	engine driven.SearchEngine

	mu        sync.RWMutex
	corpus    domain.Corpus
	byID      map[string]int
	building  bool
	buildFP   string
	percent   float64
	buildDone chan struct{}
}

var _ driving.SearchService = (*SearchService)(nil)

// NewSearchService creates a search service over the given engine.
func NewSearchService(engine driven.SearchEngine) *SearchService {
	return &SearchService{engine: engine}
}

// SetCorpus replaces the searchable corpus. The index is not rebuilt
// here; it is rebuilt lazily when a query needs it.
func (s *SearchService) SetCorpus(corpus domain.Corpus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corpus = corpus
	s.byID = make(map[string]int, len(corpus))
	for i, d := range corpus {
		s.byID[d.ID] = i
	}
}

// EnsureIndex builds the index for the current corpus if needed. An
// in-flight build for the same corpus is never restarted; with wait
// true the call joins it instead.
func (s *SearchService) EnsureIndex(ctx context.Context, wait bool) error {
	if s.engine == nil {
		return nil
	}

	s.mu.Lock()
	corpus := s.corpus
	fp := corpus.Fingerprint()
	if s.engine.Fingerprint() == fp {
		s.mu.Unlock()
		return nil
	}
	if s.building && s.buildFP == fp {
		done := s.buildDone
		s.mu.Unlock()
		if wait {
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	s.building = true
	s.buildFP = fp
	s.percent = 0
	done := make(chan struct{})
	s.buildDone = done
	s.mu.Unlock()

	build := func() {
		defer func() {
			s.mu.Lock()
			s.building = false
			s.mu.Unlock()
			close(done)
		}()

		logger.Debug("building search index for %d documents", len(corpus))
		err := s.engine.Build(ctx, corpus, func(percent float64) {
			s.mu.Lock()
			s.percent = percent
			s.mu.Unlock()
		})
		if err != nil {
			logger.Warn("index build failed: %v", err)
		}
	}

	if wait {
		build()
		return nil
	}
	go build()
	return nil
}

// Indexing reports whether a build is running and its progress.
func (s *SearchService) Indexing() (bool, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.building, s.percent
}

// Search runs a query. Empty queries return an empty result. When the
// index is unavailable or the query fails, results come from a
// case-insensitive substring scan.
func (s *SearchService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchLimit
	}

	s.mu.RLock()
	corpus := s.corpus
	s.mu.RUnlock()

	if s.engine != nil {
		if s.engine.Fingerprint() != corpus.Fingerprint() {
			// Kick off a lazy build; this query is served by the
			// fallback scan.
			if err := s.EnsureIndex(ctx, false); err != nil {
				logger.Debug("ensure index: %v", err)
			}
		} else {
			results, err := s.searchIndexed(ctx, query, opts)
			if err == nil {
				return results, nil
			}
			logger.Warn("indexed search failed, falling back: %v", err)
		}
	}

	return s.searchFallback(query, opts), nil
}

func (s *SearchService) searchIndexed(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	// Fetch enough hits to survive type filtering and the offset.
	fetch := opts.Limit + opts.Offset
	if len(opts.Types) > 0 {
		fetch *= 4
	}

	hits, err := s.engine.Search(ctx, query, fetch)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		i, ok := s.byID[hit.DocID]
		if !ok {
			continue
		}
		doc := s.corpus[i]
		if !matchesType(&doc, opts.Types) {
			continue
		}
		results = append(results, domain.SearchResult{
			Document:   doc,
			Score:      hit.Score,
			Highlights: hit.Highlights,
		})
	}
	return paginate(results, opts), nil
}

// searchFallback scans titles, summaries and types for the query as a
// case-insensitive substring. No ranking, no highlights; corpus order
// (newest first) is kept.
func (s *SearchService) searchFallback(query string, opts domain.SearchOptions) []domain.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	results := make([]domain.SearchResult, 0, opts.Limit)
	for _, doc := range s.corpus {
		if !matchesType(&doc, opts.Types) {
			continue
		}
		if !strings.Contains(strings.ToLower(doc.Title), needle) &&
			!strings.Contains(strings.ToLower(doc.Summary), needle) &&
			!strings.Contains(strings.ToLower(doc.DisplayType), needle) {
			continue
		}
		results = append(results, domain.SearchResult{Document: doc})
		if len(results) >= opts.Offset+opts.Limit {
			break
		}
	}
	return paginate(results, opts)
}

func matchesType(doc *domain.Document, types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if strings.EqualFold(t, doc.RawTypeName) || strings.EqualFold(t, doc.DisplayType) {
			return true
		}
	}
	return false
}

func paginate(results []domain.SearchResult, opts domain.SearchOptions) []domain.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if opts.Offset >= len(results) {
		return []domain.SearchResult{}
	}
	results = results[opts.Offset:]
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}
