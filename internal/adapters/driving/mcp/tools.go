package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string   `json:"query" jsonschema:"the search query to find documents"`
	Limit int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Types []string `json:"types,omitempty" jsonschema:"restrict results to document type tags (e.g. acts, bills)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	Date       string  `json:"date"`
	Score      float64 `json:"score"`
	Summary    string  `json:"summary,omitempty"`
}

// SyncInput is the input schema for the sync tool.
type SyncInput struct {
	Force bool `json:"force,omitempty" jsonschema:"fetch the sources even when the cache is fresh"`
}

// SyncOutput is the output schema for the sync tool.
type SyncOutput struct {
	Phase      string `json:"phase"`
	TotalCount int    `json:"total_count"`
	NewCount   int    `json:"new_count"`
	Fetched    int    `json:"fetched"`
	Rejected   int    `json:"rejected"`
	Source     string `json:"source,omitempty"`
	CommitSHA  string `json:"commit_sha,omitempty"`
	LastSynced string `json:"last_synced,omitempty"`
}

// LatestInput is the input schema for the latest tool.
type LatestInput struct {
	MarkSeen    bool `json:"mark_seen,omitempty" jsonschema:"record the listed documents as seen"`
	MarkAllSeen bool `json:"mark_all_seen,omitempty" jsonschema:"record every document in the corpus as seen, including anything beyond the listing cap"`
}

// LatestOutput is the output schema for the latest tool.
type LatestOutput struct {
	Documents []SearchResultOutput `json:"documents"`
	Count     int                  `json:"count"`
}

// OpenInput is the input schema for the open_pdf tool.
type OpenInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document whose source PDF to resolve"`
}

// OpenOutput is the output schema for the open_pdf tool.
type OpenOutput struct {
	DocumentID string `json:"document_id"`
	URL        string `json:"url"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the cached corpus of Sri Lankan gazettes, acts, bills, forms and notices",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync",
		Description: "Synchronise the document corpus from the published sources",
	}, s.handleSync)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "latest",
		Description: "List documents that are new since the corpus was last marked seen",
	}, s.handleLatest)

	if s.ports.PDF != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "open_pdf",
			Description: "Resolve the source PDF URL for a document",
		}, s.handleOpenPDF)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	// One-shot callers want ranked results, so wait for the index.
	if err := s.ports.Search.EnsureIndex(ctx, true); err != nil {
		return nil, SearchOutput{}, err
	}

	opts := domain.SearchOptions{Limit: limit, Types: input.Types}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = resultOutput(&results[i].Document, results[i].Score)
	}

	return nil, output, nil
}

// handleSync handles the sync tool invocation.
func (s *Server) handleSync(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncInput,
) (*mcp.CallToolResult, SyncOutput, error) {
	if err := s.ports.Sync.Sync(ctx, input.Force); err != nil {
		return nil, SyncOutput{}, err
	}

	state := s.ports.Sync.State()
	s.ports.Search.SetCorpus(state.Corpus)

	output := SyncOutput{
		Phase:      string(state.Phase),
		TotalCount: state.TotalCount,
		NewCount:   len(state.NewIDs),
		Fetched:    state.Stats.Fetched,
		Rejected:   state.Stats.Rejected,
		Source:     state.Source,
	}
	if !state.LastSyncedAt.IsZero() {
		output.LastSynced = state.LastSyncedAt.Format(time.RFC3339)
	}
	if state.Provenance != nil {
		output.CommitSHA = state.Provenance.CommitSHA
	}

	return nil, output, nil
}

// handleLatest handles the latest tool invocation.
func (s *Server) handleLatest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LatestInput,
) (*mcp.CallToolResult, LatestOutput, error) {
	if err := s.ports.Sync.Sync(ctx, false); err != nil {
		return nil, LatestOutput{}, err
	}

	state := s.ports.Sync.State()

	output := LatestOutput{
		Documents: make([]SearchResultOutput, 0, len(state.NewIDs)),
	}
	for _, id := range state.NewIDs {
		doc := state.Corpus.ByID(id)
		if doc == nil {
			continue
		}
		output.Documents = append(output.Documents, resultOutput(doc, 0))
	}
	output.Count = len(output.Documents)

	switch {
	case input.MarkAllSeen:
		if err := s.ports.Sync.MarkAllSeen(ctx); err != nil {
			return nil, LatestOutput{}, err
		}
	case input.MarkSeen && len(state.NewIDs) > 0:
		if err := s.ports.Sync.MarkSeen(ctx, state.NewIDs); err != nil {
			return nil, LatestOutput{}, err
		}
	}

	return nil, output, nil
}

// handleOpenPDF handles the open_pdf tool invocation.
func (s *Server) handleOpenPDF(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input OpenInput,
) (*mcp.CallToolResult, OpenOutput, error) {
	doc := s.ports.Sync.State().Corpus.ByID(input.DocumentID)
	if doc == nil {
		return nil, OpenOutput{}, domain.ErrNotFound
	}

	url, err := s.ports.PDF.Resolve(ctx, doc)
	if err != nil {
		return nil, OpenOutput{}, err
	}

	return nil, OpenOutput{DocumentID: doc.ID, URL: url}, nil
}

// resultOutput maps a document to the shared tool output shape.
func resultOutput(doc *domain.Document, score float64) SearchResultOutput {
	return SearchResultOutput{
		DocumentID: doc.ID,
		Title:      doc.Title,
		Type:       doc.DisplayType,
		Date:       doc.Date.Format("2006-01-02"),
		Score:      score,
		Summary:    doc.Summary,
	}
}
