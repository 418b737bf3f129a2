// Package list provides the windowed document list for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lankadocs/gazette-cli/internal/adapters/driving/tui/styles"
	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

const (
	// rowHeight is lines per rendered row: title plus detail line.
	rowHeight = 2

	// overscan rows are materialised beyond the viewport on each side
	// so single-row scrolls reuse cached renders.
	overscan = 3
)

// Row pairs a result with its new-since-last-visit marker.
type Row struct {
	Result domain.SearchResult
	IsNew  bool
}

// DocList displays documents in a navigable, windowed list. Only rows
// inside the window are rendered; everything else stays unmaterialised.
type DocList struct {
	rows     []Row
	selected int
	top      int
	styles   *styles.Styles
	width    int
	height   int

	// cache holds rendered non-selected rows, keyed by row index.
	// Cleared whenever row data or dimensions change.
	cache map[int]string
}

// NewDocList creates a new document list component.
func NewDocList(s *styles.Styles) *DocList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocList{
		styles: s,
		width:  80,
		height: 20,
		cache:  make(map[int]string),
	}
}

// Init initialises the list.
func (l *DocList) Init() tea.Cmd {
	return nil
}

// Update handles navigation messages.
func (l *DocList) Update(msg tea.Msg) (*DocList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "ctrl+k":
			l.MoveUp()
		case "down", "ctrl+j":
			l.MoveDown()
		case "pgup":
			l.PageUp()
		case "pgdown":
			l.PageDown()
		}
	}
	return l, nil
}

// View renders the visible window of the list.
func (l *DocList) View() string {
	if len(l.rows) == 0 {
		return l.styles.Muted.Render("No documents")
	}

	l.clampScroll()

	start, end := Window(l.top*rowHeight, rowHeight, l.height, len(l.rows), overscan)

	// Materialise the window, reusing cached renders where possible.
	for i := start; i < end; i++ {
		if i == l.selected {
			continue
		}
		if _, ok := l.cache[i]; !ok {
			l.cache[i] = l.renderRow(i, false)
		}
	}
	// Drop cached rows that left the window.
	for i := range l.cache {
		if i < start || i >= end {
			delete(l.cache, i)
		}
	}

	visible := l.visibleRows()
	lines := make([]string, 0, visible*rowHeight)
	for i := l.top; i < l.top+visible && i < len(l.rows); i++ {
		if i == l.selected {
			lines = append(lines, l.renderRow(i, true))
			continue
		}
		lines = append(lines, l.cache[i])
	}

	return strings.Join(lines, "\n")
}

// renderRow formats one document as a two-line row.
func (l *DocList) renderRow(index int, selected bool) string {
	row := &l.rows[index]
	doc := &row.Result.Document

	title := doc.Title
	if title == "" {
		title = "(Untitled)"
	}

	maxTitleLen := l.width - 10
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	ranges := row.Result.Highlights.Title
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
		ranges = clampRanges(ranges, len(title))
	}

	indicator := "  "
	if selected {
		indicator = "> "
	}

	var titleLine string
	if selected {
		titleLine = l.styles.Selected.Render(indicator + title)
	} else {
		titleLine = indicator + l.emphasise(title, ranges)
	}
	if row.IsNew {
		titleLine += " " + l.styles.Badge.Render("NEW")
	}

	detail := fmt.Sprintf("    %s  %s  %s",
		doc.DisplayType, doc.Date.Format("2006-01-02"), doc.ID)
	if row.Result.Score > 0 {
		detail += fmt.Sprintf("  (%.2f)", row.Result.Score)
	}

	return titleLine + "\n" + l.styles.Muted.Render(detail)
}

// emphasise styles the match spans within text. Ranges are byte
// offsets, pre-merged and sorted.
func (l *DocList) emphasise(text string, ranges []domain.HighlightRange) string {
	if len(ranges) == 0 {
		return l.styles.Normal.Render(text)
	}

	var b strings.Builder
	pos := 0
	for _, r := range ranges {
		if r.Start < pos || r.Start >= len(text) {
			continue
		}
		end := r.Start + r.Length
		if end > len(text) {
			end = len(text)
		}
		if r.Start > pos {
			b.WriteString(l.styles.Normal.Render(text[pos:r.Start]))
		}
		b.WriteString(l.styles.Match.Render(text[r.Start:end]))
		pos = end
	}
	if pos < len(text) {
		b.WriteString(l.styles.Normal.Render(text[pos:]))
	}
	return b.String()
}

// clampRanges trims highlight ranges to a truncated text length.
func clampRanges(ranges []domain.HighlightRange, length int) []domain.HighlightRange {
	out := make([]domain.HighlightRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Start >= length {
			continue
		}
		if r.Start+r.Length > length {
			r.Length = length - r.Start
		}
		out = append(out, r)
	}
	return out
}

// SetRows replaces the list contents, keeping the selection on the
// same index where possible.
func (l *DocList) SetRows(rows []Row) {
	l.rows = rows
	if l.selected >= len(rows) {
		l.selected = len(rows) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.cache = make(map[int]string)
}

// Rows returns the current rows.
func (l *DocList) Rows() []Row {
	return l.rows
}

// Selected returns the index of the selected row.
func (l *DocList) Selected() int {
	return l.selected
}

// SelectedRow returns the currently selected row, or nil if the list
// is empty.
func (l *DocList) SelectedRow() *Row {
	if len(l.rows) == 0 || l.selected < 0 || l.selected >= len(l.rows) {
		return nil
	}
	return &l.rows[l.selected]
}

// MoveUp moves the selection up one row.
func (l *DocList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
	l.clampScroll()
}

// MoveDown moves the selection down one row.
func (l *DocList) MoveDown() {
	if l.selected < len(l.rows)-1 {
		l.selected++
	}
	l.clampScroll()
}

// PageUp moves the selection up one viewport.
func (l *DocList) PageUp() {
	l.selected -= l.visibleRows()
	if l.selected < 0 {
		l.selected = 0
	}
	l.clampScroll()
}

// PageDown moves the selection down one viewport.
func (l *DocList) PageDown() {
	l.selected += l.visibleRows()
	if l.selected > len(l.rows)-1 {
		l.selected = len(l.rows) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
	l.clampScroll()
}

// clampScroll keeps the selected row inside the viewport.
func (l *DocList) clampScroll() {
	visible := l.visibleRows()
	if l.selected < l.top {
		l.top = l.selected
	}
	if l.selected >= l.top+visible {
		l.top = l.selected - visible + 1
	}
	if l.top < 0 {
		l.top = 0
	}
}

// visibleRows is how many full rows fit in the viewport.
func (l *DocList) visibleRows() int {
	visible := l.height / rowHeight
	if visible < 1 {
		visible = 1
	}
	return visible
}

// SetDimensions sets the component dimensions and invalidates the
// render cache.
func (l *DocList) SetDimensions(width, height int) {
	if width == l.width && height == l.height {
		return
	}
	l.width = width
	l.height = height
	l.cache = make(map[int]string)
}

// Count returns the number of rows.
func (l *DocList) Count() int {
	return len(l.rows)
}

// IsEmpty returns whether the list is empty.
func (l *DocList) IsEmpty() bool {
	return len(l.rows) == 0
}
