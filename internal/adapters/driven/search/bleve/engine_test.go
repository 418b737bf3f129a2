package bleve

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

func indexedCorpus(t *testing.T, e *Engine) domain.Corpus {
	t.Helper()
	corpus := domain.NewCorpus([]domain.Document{
		{ID: "g1", Title: "Extraordinary Gazette on Land Acquisition",
			Summary: "Extraordinary Gazette on Land Acquisition", DisplayType: "Extraordinary Gazette",
			Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "a1", Title: "Land Reform Amendment Act",
			Summary: "Land Reform Amendment Act", DisplayType: "Act",
			Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b1", Title: "Finance Bill",
			Summary: "Finance Bill", DisplayType: "Bill",
			Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, e.Build(context.Background(), corpus, nil))
	return corpus
}

func TestSearchBeforeBuild(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	_, err := e.Search(context.Background(), "land", 10)
	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestBuildAndSearch(t *testing.T) {
	e := NewEngine()
	defer e.Close()
	indexedCorpus(t, e)

	hits, err := e.Search(context.Background(), "land", 10)
	require.NoError(t, err)

	require.Len(t, hits, 2)
	ids := []string{hits[0].DocID, hits[1].DocID}
	assert.Contains(t, ids, "g1")
	assert.Contains(t, ids, "a1")
	for _, hit := range hits {
		assert.Greater(t, hit.Score, 0.0)
	}
}

func TestSearchHighlightRanges(t *testing.T) {
	e := NewEngine()
	defer e.Close()
	corpus := indexedCorpus(t, e)

	hits, err := e.Search(context.Background(), "land", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	for _, hit := range hits {
		doc := corpus.ByID(hit.DocID)
		require.NotNil(t, doc)
		require.NotEmpty(t, hit.Highlights.Title)
		for _, r := range hit.Highlights.Title {
			assert.GreaterOrEqual(t, r.Start, 0)
			assert.Greater(t, r.Length, 0)
			require.LessOrEqual(t, r.Start+r.Length, len(doc.Title))
			span := doc.Title[r.Start : r.Start+r.Length]
			assert.Equal(t, "land", strings.ToLower(span))
		}
	}
}

func TestSearchHonoursLimit(t *testing.T) {
	e := NewEngine()
	defer e.Close()
	indexedCorpus(t, e)

	hits, err := e.Search(context.Background(), "land", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchNoMatches(t *testing.T) {
	e := NewEngine()
	defer e.Close()
	indexedCorpus(t, e)

	hits, err := e.Search(context.Background(), "zzzzzz", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFingerprintTracksBuilds(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	assert.Empty(t, e.Fingerprint())

	corpus := indexedCorpus(t, e)
	assert.Equal(t, corpus.Fingerprint(), e.Fingerprint())

	smaller := domain.NewCorpus(corpus[:1])
	require.NoError(t, e.Build(context.Background(), smaller, nil))
	assert.Equal(t, smaller.Fingerprint(), e.Fingerprint())
}

func TestBuildReportsProgress(t *testing.T) {
	e := NewEngine()
	defer e.Close()

	var percents []float64
	corpus := domain.NewCorpus([]domain.Document{
		{ID: "a", Title: "A", Date: time.Now()},
	})
	require.NoError(t, e.Build(context.Background(), corpus, func(p float64) {
		percents = append(percents, p)
	}))

	require.NotEmpty(t, percents)
	assert.Equal(t, float64(100), percents[len(percents)-1])
}

func TestCloseResetsEngine(t *testing.T) {
	e := NewEngine()
	indexedCorpus(t, e)

	require.NoError(t, e.Close())
	assert.Empty(t, e.Fingerprint())

	_, err := e.Search(context.Background(), "land", 10)
	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
}
