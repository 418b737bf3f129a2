package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
)

type fakeEngine struct {
	mu        sync.Mutex
	fp        string
	builds    int
	buildErr  error
	hits      []driven.SearchHit
	searchErr error
}

func (f *fakeEngine) Build(ctx context.Context, corpus domain.Corpus, progress func(float64)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builds++
	if f.buildErr != nil {
		return f.buildErr
	}
	f.fp = corpus.Fingerprint()
	if progress != nil {
		progress(100)
	}
	return nil
}

func (f *fakeEngine) Fingerprint() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fp
}

func (f *fakeEngine) Search(ctx context.Context, query string, limit int) ([]driven.SearchHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	hits := f.hits
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (f *fakeEngine) Close() error { return nil }

func (f *fakeEngine) buildCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.builds
}

func searchCorpus() domain.Corpus {
	return domain.NewCorpus([]domain.Document{
		{ID: "g1", Title: "Land Acquisition Gazette", Summary: "Land Acquisition Gazette",
			DisplayType: "Gazette", RawTypeName: "gazettes", Date: day("2024-03-01")},
		{ID: "a1", Title: "Land Reform Act", Summary: "Land Reform Act",
			DisplayType: "Act", RawTypeName: "acts", Date: day("2024-02-01")},
		{ID: "b1", Title: "Finance Bill", Summary: "Finance Bill",
			DisplayType: "Bill", RawTypeName: "bills", Date: day("2024-01-01")},
	})
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSearchEmptyQuery(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewSearchService(engine)
	svc.SetCorpus(searchCorpus())

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := svc.Search(context.Background(), q, domain.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
	}
	assert.Equal(t, 0, engine.buildCount())
}

func TestSearchIndexedPath(t *testing.T) {
	corpus := searchCorpus()
	engine := &fakeEngine{hits: []driven.SearchHit{
		{DocID: "a1", Score: 2.5, Highlights: domain.Highlights{
			Title: []domain.HighlightRange{{Start: 0, Length: 4}},
		}},
		{DocID: "g1", Score: 1.0},
	}}
	svc := NewSearchService(engine)
	svc.SetCorpus(corpus)
	require.NoError(t, svc.EnsureIndex(context.Background(), true))

	results, err := svc.Search(context.Background(), "land", domain.SearchOptions{})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "a1", results[0].Document.ID)
	assert.Equal(t, 2.5, results[0].Score)
	assert.Equal(t, []domain.HighlightRange{{Start: 0, Length: 4}}, results[0].Highlights.Title)
	assert.Equal(t, "g1", results[1].Document.ID)
}

func TestSearchFallbackBeforeIndexReady(t *testing.T) {
	svc := NewSearchService(&fakeEngine{})
	svc.SetCorpus(searchCorpus())

	results, err := svc.Search(context.Background(), "LAND", domain.SearchOptions{})
	require.NoError(t, err)

	// Substring scan keeps corpus order (newest first), no highlights.
	require.Len(t, results, 2)
	assert.Equal(t, "g1", results[0].Document.ID)
	assert.Equal(t, "a1", results[1].Document.ID)
	assert.Empty(t, results[0].Highlights.Title)
	assert.Zero(t, results[0].Score)
}

func TestSearchFallbackOnQueryError(t *testing.T) {
	engine := &fakeEngine{searchErr: errors.New("query parse failed")}
	svc := NewSearchService(engine)
	svc.SetCorpus(searchCorpus())
	require.NoError(t, svc.EnsureIndex(context.Background(), true))

	results, err := svc.Search(context.Background(), "finance", domain.SearchOptions{})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "b1", results[0].Document.ID)
}

func TestSearchNilEngine(t *testing.T) {
	svc := NewSearchService(nil)
	svc.SetCorpus(searchCorpus())

	results, err := svc.Search(context.Background(), "act", domain.SearchOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestSearchTypeFilter(t *testing.T) {
	svc := NewSearchService(nil)
	svc.SetCorpus(searchCorpus())

	results, err := svc.Search(context.Background(), "land",
		domain.SearchOptions{Types: []string{"acts"}})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "a1", results[0].Document.ID)
}

func TestSearchPagination(t *testing.T) {
	svc := NewSearchService(nil)
	svc.SetCorpus(searchCorpus())

	first, err := svc.Search(context.Background(), "land", domain.SearchOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Search(context.Background(), "land",
		domain.SearchOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].Document.ID, second[0].Document.ID)

	past, err := svc.Search(context.Background(), "land",
		domain.SearchOptions{Limit: 1, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestEnsureIndexReusesBuild(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewSearchService(engine)
	svc.SetCorpus(searchCorpus())

	require.NoError(t, svc.EnsureIndex(context.Background(), true))
	require.NoError(t, svc.EnsureIndex(context.Background(), true))
	assert.Equal(t, 1, engine.buildCount())

	building, percent := svc.Indexing()
	assert.False(t, building)
	assert.Equal(t, float64(100), percent)
}

func TestEnsureIndexRebuildsOnCorpusChange(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewSearchService(engine)
	svc.SetCorpus(searchCorpus())
	require.NoError(t, svc.EnsureIndex(context.Background(), true))

	svc.SetCorpus(searchCorpus()[:1])
	require.NoError(t, svc.EnsureIndex(context.Background(), true))

	assert.Equal(t, 2, engine.buildCount())
}
