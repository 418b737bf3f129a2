package mcp

import (
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides ranked full-text search.
	Search driving.SearchService

	// Sync keeps the corpus current and tracks seen documents.
	Sync driving.SyncService

	// PDF resolves a document's source PDF. Optional.
	PDF driven.PDFResolver
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Sync == nil {
		return ErrMissingSyncService
	}
	// PDF is optional
	return nil
}
