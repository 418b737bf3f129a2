package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

func TestHandleSearch(t *testing.T) {
	server, search, _ := newTestServer()
	search.results = []domain.SearchResult{
		{Document: testState().Corpus[0], Score: 1.8},
	}

	_, output, err := server.handleSearch(context.Background(), nil, SearchInput{Query: "land"})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, "acts-2024-01", output.Results[0].DocumentID)
	assert.Equal(t, "Land Acquisition (Amendment) Act", output.Results[0].Title)
	assert.Equal(t, "2024-03-01", output.Results[0].Date)
	assert.InDelta(t, 1.8, output.Results[0].Score, 0.001)
}

func TestHandleSearchDefaultLimit(t *testing.T) {
	server, search, _ := newTestServer()

	_, _, err := server.handleSearch(context.Background(), nil, SearchInput{Query: "land"})

	require.NoError(t, err)
	assert.Equal(t, 10, search.lastOpts.Limit)
}

func TestHandleSearchPassesTypes(t *testing.T) {
	server, search, _ := newTestServer()

	_, _, err := server.handleSearch(context.Background(), nil, SearchInput{
		Query: "land", Limit: 5, Types: []string{"acts"},
	})

	require.NoError(t, err)
	assert.Equal(t, 5, search.lastOpts.Limit)
	assert.Equal(t, []string{"acts"}, search.lastOpts.Types)
}

func TestHandleSearchError(t *testing.T) {
	server, search, _ := newTestServer()
	search.err = errors.New("index corrupt")

	_, _, err := server.handleSearch(context.Background(), nil, SearchInput{Query: "land"})

	assert.Error(t, err)
}

func TestHandleSync(t *testing.T) {
	server, search, syncSvc := newTestServer()

	_, output, err := server.handleSync(context.Background(), nil, SyncInput{Force: true})

	require.NoError(t, err)
	require.Len(t, syncSvc.forces, 1)
	assert.True(t, syncSvc.forces[0])
	assert.Equal(t, "success", output.Phase)
	assert.Equal(t, 2, output.TotalCount)
	assert.Equal(t, 1, output.NewCount)
	assert.NotEmpty(t, output.LastSynced)
	assert.Equal(t, testState().Corpus, search.corpus, "sync refreshes the search corpus")
}

func TestHandleSyncError(t *testing.T) {
	server, _, syncSvc := newTestServer()
	syncSvc.syncErr = errors.New("all sources failed")

	_, _, err := server.handleSync(context.Background(), nil, SyncInput{})

	assert.Error(t, err)
}

func TestHandleLatest(t *testing.T) {
	server, _, syncSvc := newTestServer()

	_, output, err := server.handleLatest(context.Background(), nil, LatestInput{})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, "acts-2024-01", output.Documents[0].DocumentID)
	assert.Empty(t, syncSvc.marked, "latest does not mark seen by default")
}

func TestHandleLatestMarkSeen(t *testing.T) {
	server, _, syncSvc := newTestServer()

	_, _, err := server.handleLatest(context.Background(), nil, LatestInput{MarkSeen: true})

	require.NoError(t, err)
	require.Len(t, syncSvc.marked, 1)
	assert.Equal(t, []string{"acts-2024-01"}, syncSvc.marked[0])
}

func TestHandleLatestMarkAllSeen(t *testing.T) {
	server, _, syncSvc := newTestServer()

	_, _, err := server.handleLatest(context.Background(), nil, LatestInput{MarkAllSeen: true})

	require.NoError(t, err)
	assert.Equal(t, 1, syncSvc.markedAll)
	assert.Empty(t, syncSvc.marked, "mark_all_seen covers the whole corpus in one call")
}

func TestHandleOpenPDF(t *testing.T) {
	server, _, _ := newTestServer()

	_, output, err := server.handleOpenPDF(context.Background(), nil, OpenInput{DocumentID: "acts-2024-01"})

	require.NoError(t, err)
	assert.Equal(t, "http://example.com/doc.pdf", output.URL)
}

func TestHandleOpenPDFUnknownDocument(t *testing.T) {
	server, _, _ := newTestServer()

	_, _, err := server.handleOpenPDF(context.Background(), nil, OpenInput{DocumentID: "nope"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
