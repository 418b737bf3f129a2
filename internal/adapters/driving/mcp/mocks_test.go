package mcp

import (
	"context"
	"time"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
)

type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
	corpus   domain.Corpus
}

func (m *mockSearchService) SetCorpus(c domain.Corpus) { m.corpus = c }

func (m *mockSearchService) EnsureIndex(context.Context, bool) error { return nil }

func (m *mockSearchService) Indexing() (bool, float64) { return false, 100 }

func (m *mockSearchService) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

type mockSyncService struct {
	state     domain.SyncState
	syncErr   error
	forces    []bool
	marked    [][]string
	markedAll int
}

func (m *mockSyncService) Sync(_ context.Context, force bool) error {
	m.forces = append(m.forces, force)
	return m.syncErr
}

func (m *mockSyncService) State() domain.SyncState { return m.state }

func (m *mockSyncService) Events() <-chan domain.SyncProgress { return nil }

func (m *mockSyncService) MarkSeen(_ context.Context, ids []string) error {
	m.marked = append(m.marked, ids)
	return nil
}

func (m *mockSyncService) MarkAllSeen(context.Context) error {
	m.markedAll++
	return nil
}

func (m *mockSyncService) Start(context.Context) error { return nil }

func (m *mockSyncService) Stop() error { return nil }

type mockResolver struct {
	url string
	err error
}

func (m *mockResolver) Resolve(context.Context, *domain.Document) (string, error) {
	return m.url, m.err
}

var (
	_ driving.SearchService = (*mockSearchService)(nil)
	_ driving.SyncService   = (*mockSyncService)(nil)
	_ driven.PDFResolver    = (*mockResolver)(nil)
)

func testState() domain.SyncState {
	corpus := domain.Corpus{
		{
			ID:          "acts-2024-01",
			Title:       "Land Acquisition (Amendment) Act",
			DisplayType: "Act",
			RawTypeName: "acts",
			Summary:     "Amends the Land Acquisition Act",
			FullContent: "Full text of the amendment act.",
			Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "gazettes-2024-02",
			Title:       "Weekly Gazette No. 2374",
			DisplayType: "Gazette",
			RawTypeName: "gazettes",
			Date:        time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC),
		},
	}
	return domain.SyncState{
		Phase:        domain.SyncSuccess,
		Corpus:       corpus,
		TotalCount:   len(corpus),
		NewIDs:       []string{"acts-2024-01"},
		Stats:        domain.SyncStats{Fetched: 2, Normalised: 2},
		LastSyncedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func newTestServer() (*Server, *mockSearchService, *mockSyncService) {
	search := &mockSearchService{}
	syncSvc := &mockSyncService{state: testState()}
	server, err := NewServer(&Ports{
		Search: search,
		Sync:   syncSvc,
		PDF:    &mockResolver{url: "http://example.com/doc.pdf"},
	})
	if err != nil {
		panic(err)
	}
	return server, search, syncSvc
}
