package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui/messages"
	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
)

type fakeSearch struct {
	corpus  domain.Corpus
	results []domain.SearchResult
	err     error
	queries []string
}

func (f *fakeSearch) SetCorpus(c domain.Corpus) { f.corpus = c }

func (f *fakeSearch) EnsureIndex(context.Context, bool) error { return nil }

func (f *fakeSearch) Indexing() (bool, float64) { return false, 100 }

func (f *fakeSearch) Search(_ context.Context, query string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type fakeSync struct {
	state domain.SyncState
}

func (f *fakeSync) Sync(context.Context, bool) error         { return nil }
func (f *fakeSync) State() domain.SyncState                  { return f.state }
func (f *fakeSync) Events() <-chan domain.SyncProgress       { return nil }
func (f *fakeSync) MarkSeen(context.Context, []string) error { return nil }
func (f *fakeSync) MarkAllSeen(context.Context) error        { return nil }
func (f *fakeSync) Start(context.Context) error              { return nil }
func (f *fakeSync) Stop() error                              { return nil }

type fakeLoader struct {
	updates []driving.LoaderUpdate
	err     error
}

func (f *fakeLoader) Load(context.Context, bool) (<-chan driving.LoaderUpdate, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan driving.LoaderUpdate, len(f.updates))
	for _, u := range f.updates {
		ch <- u
	}
	close(ch)
	return ch, nil
}

type fakePDF struct {
	url string
	err error
}

func (f *fakePDF) Resolve(context.Context, *domain.Document) (string, error) {
	return f.url, f.err
}

var (
	_ driving.SearchService     = (*fakeSearch)(nil)
	_ driving.SyncService       = (*fakeSync)(nil)
	_ driving.ProgressiveLoader = (*fakeLoader)(nil)
	_ driven.PDFResolver        = (*fakePDF)(nil)
)

func testCorpus() domain.Corpus {
	return domain.Corpus{
		{
			ID:          "acts-2024-01",
			Title:       "Land Acquisition Act",
			DisplayType: "Act",
			Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "gazettes-2024-02",
			Title:       "Weekly Gazette",
			DisplayType: "Gazette",
			Date:        time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC),
		},
	}
}

func newTestApp(t *testing.T) (*App, *fakeSearch, *fakeLoader) {
	t.Helper()
	search := &fakeSearch{}
	loader := &fakeLoader{}
	app, err := NewApp(&Ports{
		Search: search,
		Sync:   &fakeSync{},
		Loader: loader,
		PDF:    &fakePDF{url: "http://example.com/doc.pdf"},
	})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app, search, loader
}

func TestNewAppValidatesPorts(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingSearchService)

	_, err = NewApp(&Ports{Search: &fakeSearch{}})
	assert.ErrorIs(t, err, ErrMissingSyncService)

	_, err = NewApp(&Ports{Search: &fakeSearch{}, Sync: &fakeSync{}})
	assert.ErrorIs(t, err, ErrMissingLoader)
}

func TestAppShowsCorpusWhileLoading(t *testing.T) {
	app, search, _ := newTestApp(t)

	app.Update(messages.CorpusUpdated{Update: driving.LoaderUpdate{
		Docs: testCorpus(), Percent: 40,
	}})

	view := app.View()
	assert.Contains(t, view, "Land Acquisition Act")
	assert.Contains(t, view, "Weekly Gazette")
	assert.Equal(t, testCorpus(), search.corpus, "loader updates feed the search corpus")
}

func TestAppFinalUpdateFetchesSyncState(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.ports.Sync.(*fakeSync).state = domain.SyncState{
		TotalCount: 2,
		NewIDs:     []string{"acts-2024-01"},
	}

	_, cmd := app.Update(messages.CorpusUpdated{Update: driving.LoaderUpdate{
		Docs: testCorpus(), Percent: 100, Final: true,
	}})
	require.NotNil(t, cmd)

	app.Update(messages.SyncStateChanged{State: app.ports.Sync.State()})

	view := app.View()
	assert.Contains(t, view, "NEW")
	assert.Contains(t, view, "2 documents, 1 new")
}

func TestAppSearchOnTyping(t *testing.T) {
	app, search, _ := newTestApp(t)
	search.results = []domain.SearchResult{
		{Document: testCorpus()[0], Score: 1.5},
	}
	app.Update(messages.CorpusUpdated{Update: driving.LoaderUpdate{Docs: testCorpus(), Final: true}})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	require.NotNil(t, cmd)
	assert.Equal(t, "l", app.Query())

	// Run the returned command to get the search message.
	msg := drainCmd(cmd)
	completed, ok := findMsg[messages.SearchCompleted](msg)
	require.True(t, ok, "typing should trigger a search")
	assert.Equal(t, "l", completed.Query)

	app.Update(completed)
	assert.Contains(t, app.View(), "Land Acquisition Act")
	assert.Contains(t, app.View(), "(1.50)")
}

func TestAppDropsStaleSearchResults(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.Update(messages.CorpusUpdated{Update: driving.LoaderUpdate{Docs: testCorpus(), Final: true}})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	app.Update(messages.SearchCompleted{
		Query:   "old query",
		Results: []domain.SearchResult{{Document: domain.Document{ID: "stale", Title: "Stale Result"}}},
	})

	assert.NotContains(t, app.View(), "Stale Result")
}

func TestAppEscClearsQuery(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.Update(messages.CorpusUpdated{Update: driving.LoaderUpdate{Docs: testCorpus(), Final: true}})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.Equal(t, "x", app.Query())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Empty(t, app.Query())
	assert.Contains(t, app.View(), "Weekly Gazette", "corpus listing returns after clearing")
}

func TestAppEnterResolvesPDF(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.Update(messages.CorpusUpdated{Update: driving.LoaderUpdate{Docs: testCorpus(), Final: true}})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := drainCmd(cmd)
	resolved, ok := findMsg[messages.PDFResolved](msg)
	require.True(t, ok)
	assert.Equal(t, "http://example.com/doc.pdf", resolved.URL)

	app.Update(resolved)
	assert.Contains(t, app.View(), "http://example.com/doc.pdf")
}

func TestAppPDFUnavailable(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.ports.PDF = &fakePDF{err: domain.ErrPDFUnavailable}
	app.Update(messages.CorpusUpdated{Update: driving.LoaderUpdate{Docs: testCorpus(), Final: true}})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg := drainCmd(cmd)
	resolved, ok := findMsg[messages.PDFResolved](msg)
	require.True(t, ok)
	require.Error(t, resolved.Err)

	app.Update(resolved)
	assert.Contains(t, app.View(), "No PDF available")
}

func TestAppLoaderError(t *testing.T) {
	app, _, _ := newTestApp(t)

	app.Update(messages.CorpusUpdated{Update: driving.LoaderUpdate{
		Err: errors.New("all sources failed"), Final: true,
	}})

	assert.Error(t, app.Err())
	assert.Contains(t, app.View(), "all sources failed")
}

// drainCmd executes a command and returns its message.
func drainCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// findMsg unwraps a message of type T from msg, looking inside batches.
func findMsg[T tea.Msg](msg tea.Msg) (T, bool) {
	var zero T
	if m, ok := msg.(T); ok {
		return m, true
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, cmd := range batch {
			if cmd == nil {
				continue
			}
			if m, ok := findMsg[T](cmd()); ok {
				return m, true
			}
		}
	}
	return zero, false
}
