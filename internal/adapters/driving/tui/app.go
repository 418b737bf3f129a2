package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui/components/input"
	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui/components/list"
	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui/components/status"
	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui/keymap"
	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui/messages"
	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui/styles"
	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
)

// searchLimit caps how many results a TUI query materialises.
const searchLimit = 100

// loadStarted carries the loader's update channel into the model.
type loadStarted struct {
	ch <-chan driving.LoaderUpdate
}

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	queryInput *input.QueryInput
	docList    *list.DocList
	statusBar  *status.Bar

	// corpus is the best corpus received from the loader so far.
	corpus domain.Corpus

	// newIDs marks documents new since the user's last visit.
	newIDs map[string]bool

	// loadCh receives progressive loader updates until it closes.
	loadCh <-chan driving.LoaderUpdate

	query  string
	pdfMsg string
	err    error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		queryInput: input.NewQueryInput(s),
		docList:    list.NewDocList(s),
		statusBar:  status.NewBar(s, km),
		newIDs:     make(map[string]bool),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// Init implements tea.Model. It starts the progressive corpus load.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("gazette - Sri Lankan legal documents"),
		a.queryInput.Init(),
		a.startLoad(false),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.queryInput.SetWidth(msg.Width)
		a.statusBar.SetWidth(msg.Width)
		// Input block and status bar take the top and bottom lines.
		listHeight := msg.Height - 6
		if listHeight < rowBudget {
			listHeight = rowBudget
		}
		a.docList.SetDimensions(msg.Width, listHeight)
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case loadStarted:
		a.loadCh = msg.ch
		a.statusBar.SetState(status.StateLoading)
		return a, waitForUpdate(msg.ch)

	case messages.CorpusUpdated:
		return a.updateCorpus(msg.Update)

	case messages.SearchCompleted:
		// Stale responses for an older query are dropped.
		if msg.Query != a.query {
			return a, nil
		}
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.docList.SetRows(a.rowsFromResults(msg.Results))
		return a, nil

	case messages.IndexProgress:
		if msg.Building {
			a.statusBar.SetState(status.StateIndexing)
			a.statusBar.SetPercent(msg.Percent)
		} else {
			a.statusBar.SetState(status.StateReady)
		}
		return a, nil

	case messages.SyncStateChanged:
		a.newIDs = make(map[string]bool, len(msg.State.NewIDs))
		for _, id := range msg.State.NewIDs {
			a.newIDs[id] = true
		}
		a.statusBar.SetCounts(msg.State.TotalCount, len(msg.State.NewIDs))
		if a.query == "" {
			a.docList.SetRows(a.rowsFromCorpus())
		}
		return a, nil

	case messages.PDFResolved:
		if msg.Err != nil {
			a.pdfMsg = fmt.Sprintf("No PDF available for %s", msg.DocID)
		} else {
			a.pdfMsg = msg.URL
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil
	}

	return a, nil
}

// rowBudget is the minimum list height in lines.
const rowBudget = 4

// updateKey routes key presses.
func (a *App) updateKey(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch {
	case keymap.Matches(key.String(), a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(key.String(), a.keymap.Clear):
		a.query = ""
		a.pdfMsg = ""
		a.queryInput.Reset()
		a.docList.SetRows(a.rowsFromCorpus())
		return a, nil

	case keymap.Matches(key.String(), a.keymap.Up),
		keymap.Matches(key.String(), a.keymap.Down),
		keymap.Matches(key.String(), a.keymap.PageUp),
		keymap.Matches(key.String(), a.keymap.PageDown):
		var cmd tea.Cmd
		a.docList, cmd = a.docList.Update(msg)
		return a, cmd

	case keymap.Matches(key.String(), a.keymap.Open):
		row := a.docList.SelectedRow()
		if row == nil || a.ports.PDF == nil {
			return a, nil
		}
		doc := row.Result.Document
		return a, a.resolvePDF(&doc)

	case keymap.Matches(key.String(), a.keymap.Refresh):
		return a, a.startLoad(true)
	}

	// Everything else edits the query.
	var cmd tea.Cmd
	a.queryInput, cmd = a.queryInput.Update(msg)
	if value := a.queryInput.Value(); value != a.query {
		a.query = value
		a.pdfMsg = ""
		if strings.TrimSpace(value) == "" {
			a.docList.SetRows(a.rowsFromCorpus())
			return a, cmd
		}
		return a, tea.Batch(cmd, a.doSearch(value))
	}
	return a, cmd
}

// updateCorpus folds one loader update into the model.
func (a *App) updateCorpus(u driving.LoaderUpdate) (tea.Model, tea.Cmd) {
	if u.Err != nil {
		a.err = u.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(u.Err.Error())
		return a, nil
	}

	a.corpus = u.Docs
	a.ports.Search.SetCorpus(u.Docs)
	a.statusBar.SetPercent(u.Percent)

	if a.query == "" {
		a.docList.SetRows(a.rowsFromCorpus())
	}

	if !u.Final {
		return a, waitForUpdate(a.loadCh)
	}

	a.statusBar.SetState(status.StateReady)
	a.statusBar.SetCounts(len(u.Docs), 0)
	return a, tea.Batch(a.buildIndex(), a.fetchSyncState())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Gazette"))
	b.WriteString("  ")
	b.WriteString(a.styles.Muted.Render("Sri Lankan legal document search"))
	b.WriteString("\n\n")
	b.WriteString(a.queryInput.View())
	b.WriteString("\n\n")
	b.WriteString(a.docList.View())
	b.WriteString("\n")
	if a.pdfMsg != "" {
		b.WriteString(a.styles.Subtitle.Render(a.pdfMsg))
		b.WriteString("\n")
	}
	b.WriteString(a.statusBar.View())
	return b.String()
}

// startLoad kicks off a progressive corpus load.
func (a *App) startLoad(force bool) tea.Cmd {
	return func() tea.Msg {
		ch, err := a.ports.Loader.Load(a.ctx, force)
		if err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return loadStarted{ch: ch}
	}
}

// waitForUpdate delivers the next loader update as a message.
func waitForUpdate(ch <-chan driving.LoaderUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return messages.CorpusUpdated{Update: u}
	}
}

// doSearch runs a query against the search service.
func (a *App) doSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.ports.Search.Search(a.ctx, query, domain.SearchOptions{Limit: searchLimit})
		return messages.SearchCompleted{Query: query, Results: results, Err: err}
	}
}

// buildIndex builds the search index in the background and reports
// completion. Queries fall back to a substring scan until it finishes.
func (a *App) buildIndex() tea.Cmd {
	return func() tea.Msg {
		if err := a.ports.Search.EnsureIndex(a.ctx, true); err != nil {
			return messages.ErrorOccurred{Err: err}
		}
		return messages.IndexProgress{Building: false, Percent: 100}
	}
}

// fetchSyncState publishes the sync engine's current state to the model.
func (a *App) fetchSyncState() tea.Cmd {
	return func() tea.Msg {
		return messages.SyncStateChanged{State: a.ports.Sync.State()}
	}
}

// resolvePDF looks up the document's source PDF link.
func (a *App) resolvePDF(doc *domain.Document) tea.Cmd {
	return func() tea.Msg {
		url, err := a.ports.PDF.Resolve(a.ctx, doc)
		return messages.PDFResolved{DocID: doc.ID, URL: url, Err: err}
	}
}

// rowsFromCorpus lists the whole corpus, newest first.
func (a *App) rowsFromCorpus() []list.Row {
	rows := make([]list.Row, len(a.corpus))
	for i, doc := range a.corpus {
		rows[i] = list.Row{
			Result: domain.SearchResult{Document: doc},
			IsNew:  a.newIDs[doc.ID],
		}
	}
	return rows
}

// rowsFromResults lists ranked search results.
func (a *App) rowsFromResults(results []domain.SearchResult) []list.Row {
	rows := make([]list.Row, len(results))
	for i, res := range results {
		rows[i] = list.Row{
			Result: res,
			IsNew:  a.newIDs[res.Document.ID],
		}
	}
	return rows
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.query
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.Update(tea.WindowSizeMsg{Width: width, Height: height})
}
