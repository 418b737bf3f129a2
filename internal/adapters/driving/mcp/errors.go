// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants search and synchronise the local legal-document
// corpus.
package mcp

import "errors"

// Errors returned when required ports are not provided.
var (
	ErrMissingSearchService = errors.New("mcp: search service is required")
	ErrMissingSyncService   = errors.New("mcp: sync service is required")
)
