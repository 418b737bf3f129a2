// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
)

// CorpusUpdated carries one progressive-loader emission: a partial or
// final corpus plus progress bookkeeping.
type CorpusUpdated struct {
	Update driving.LoaderUpdate
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Query   string
	Results []domain.SearchResult
	Err     error
}

// IndexProgress reports the state of a background index build.
type IndexProgress struct {
	Building bool
	Percent  float64
}

// SyncStateChanged carries the latest published sync state.
type SyncStateChanged struct {
	State domain.SyncState
}

// PDFResolved carries the outcome of resolving a document's PDF link.
type PDFResolved struct {
	DocID string
	URL   string
	Err   error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
