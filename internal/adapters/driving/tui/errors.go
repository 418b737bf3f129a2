package tui

import "errors"

// Errors returned when required ports are not provided.
var (
	ErrMissingSearchService = errors.New("tui: search service is required")
	ErrMissingSyncService   = errors.New("tui: sync service is required")
	ErrMissingLoader        = errors.New("tui: progressive loader is required")
)
