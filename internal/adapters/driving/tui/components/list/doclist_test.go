package list

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

func makeRows(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			Result: domain.SearchResult{
				Document: domain.Document{
					ID:          fmt.Sprintf("doc-%03d", i),
					Title:       fmt.Sprintf("Document %d", i),
					DisplayType: "Act",
					Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				},
			},
		}
	}
	return rows
}

func TestDocListEmpty(t *testing.T) {
	l := NewDocList(nil)

	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedRow())
	assert.Contains(t, l.View(), "No documents")
}

func TestDocListNavigation(t *testing.T) {
	l := NewDocList(nil)
	l.SetRows(makeRows(5))

	assert.Equal(t, 0, l.Selected())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected(), "cannot move above the first row")

	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())

	for i := 0; i < 10; i++ {
		l.MoveDown()
	}
	assert.Equal(t, 4, l.Selected(), "cannot move past the last row")

	row := l.SelectedRow()
	require.NotNil(t, row)
	assert.Equal(t, "doc-004", row.Result.Document.ID)
}

func TestDocListPageNavigation(t *testing.T) {
	l := NewDocList(nil)
	l.SetDimensions(80, 10) // 5 rows per page
	l.SetRows(makeRows(20))

	l.PageDown()
	assert.Equal(t, 5, l.Selected())

	l.PageDown()
	l.PageDown()
	l.PageDown()
	assert.Equal(t, 19, l.Selected(), "page down clamps at the end")

	l.PageUp()
	assert.Equal(t, 14, l.Selected())
}

func TestDocListRendersOnlyVisibleRows(t *testing.T) {
	l := NewDocList(nil)
	l.SetDimensions(80, 10) // 5 visible rows
	l.SetRows(makeRows(1000))

	view := l.View()

	assert.Contains(t, view, "doc-000")
	assert.Contains(t, view, "doc-004")
	assert.NotContains(t, view, "doc-009", "rows outside the window are not rendered")
	assert.NotContains(t, view, "doc-500")
}

func TestDocListScrollFollowsSelection(t *testing.T) {
	l := NewDocList(nil)
	l.SetDimensions(80, 10)
	l.SetRows(makeRows(100))

	for i := 0; i < 50; i++ {
		l.MoveDown()
	}

	view := l.View()
	assert.Contains(t, view, "doc-050")
	assert.NotContains(t, view, "doc-000")
}

func TestDocListSelectionClampedOnShrink(t *testing.T) {
	l := NewDocList(nil)
	l.SetRows(makeRows(10))
	for i := 0; i < 9; i++ {
		l.MoveDown()
	}
	require.Equal(t, 9, l.Selected())

	l.SetRows(makeRows(3))
	assert.Equal(t, 2, l.Selected())
}

func TestDocListNewBadge(t *testing.T) {
	l := NewDocList(nil)
	rows := makeRows(2)
	rows[0].IsNew = true
	l.SetRows(rows)

	assert.Contains(t, l.View(), "NEW")
}

func TestDocListUntitledFallback(t *testing.T) {
	l := NewDocList(nil)
	l.SetRows([]Row{{Result: domain.SearchResult{Document: domain.Document{ID: "x"}}}})

	assert.Contains(t, l.View(), "(Untitled)")
}

func TestClampRanges(t *testing.T) {
	ranges := []domain.HighlightRange{
		{Start: 0, Length: 4},
		{Start: 8, Length: 10},
		{Start: 30, Length: 2},
	}

	clamped := clampRanges(ranges, 12)

	require.Len(t, clamped, 2)
	assert.Equal(t, domain.HighlightRange{Start: 0, Length: 4}, clamped[0])
	assert.Equal(t, domain.HighlightRange{Start: 8, Length: 4}, clamped[1])
}
