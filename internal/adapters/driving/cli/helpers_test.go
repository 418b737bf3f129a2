package cli

import (
	"context"
	"time"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
)

type mockSyncService struct {
	state     domain.SyncState
	events    chan domain.SyncProgress
	syncErr   error
	forces    []bool
	marked    [][]string
	markedAll int
}

func newMockSyncService() *mockSyncService {
	corpus := domain.Corpus{
		{
			ID:          "acts-2024-01",
			Title:       "Land Acquisition (Amendment) Act",
			DisplayType: "Act",
			RawTypeName: "acts",
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
	return &mockSyncService{
		state: domain.SyncState{
			Phase:      domain.SyncSuccess,
			Corpus:     corpus,
			TotalCount: len(corpus),
			NewIDs:     []string{"acts-2024-01"},
			Stats:      domain.SyncStats{Fetched: 2, Normalised: 2},
		},
		events: make(chan domain.SyncProgress, 8),
	}
}

func (m *mockSyncService) Sync(_ context.Context, force bool) error {
	m.forces = append(m.forces, force)
	return m.syncErr
}

func (m *mockSyncService) State() domain.SyncState { return m.state }

func (m *mockSyncService) Events() <-chan domain.SyncProgress { return m.events }

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

type mockSearchService struct {
	results   []domain.SearchResult
	searchErr error
	ensureErr error
	lastQuery string
	lastOpts  domain.SearchOptions
	corpus    domain.Corpus
}

func newMockSearchService() *mockSearchService {
	return &mockSearchService{
		results: []domain.SearchResult{
			{
				Document: domain.Document{
					ID:          "acts-2024-01",
					Title:       "Land Acquisition (Amendment) Act",
					DisplayType: "Act",
					Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				},
				Score: 0.95,
			},
		},
	}
}

func (m *mockSearchService) SetCorpus(c domain.Corpus) { m.corpus = c }

func (m *mockSearchService) EnsureIndex(context.Context, bool) error { return m.ensureErr }

func (m *mockSearchService) Indexing() (bool, float64) { return false, 100 }

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.results, nil
}

type mockResolver struct {
	url string
	err error
}

func (m *mockResolver) Resolve(context.Context, *domain.Document) (string, error) {
	return m.url, m.err
}

var (
	_ driving.SyncService   = (*mockSyncService)(nil)
	_ driving.SearchService = (*mockSearchService)(nil)
	_ driven.PDFResolver    = (*mockResolver)(nil)
)

// setupTestServices swaps in mock services and returns a cleanup that
// restores the previous ones.
func setupTestServices() func() {
	oldSync := syncService
	oldSearch := searchService
	oldLoader := loaderService
	oldResolver := pdfResolver

	syncService = newMockSyncService()
	searchService = newMockSearchService()
	pdfResolver = &mockResolver{url: "http://example.com/doc.pdf"}

	return func() {
		syncService = oldSync
		searchService = oldSearch
		loaderService = oldLoader
		pdfResolver = oldResolver
	}
}
