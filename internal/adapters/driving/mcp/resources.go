package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for gazette resources.
const uriScheme = "gazette://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for corpus statistics.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "corpus",
		Name:        "corpus",
		Description: "Statistics about the synchronised document corpus",
		MIMEType:    "application/json",
	}, s.handleCorpusResource)

	// Template for document content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-content",
		Description: "Content of a specific document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// handleCorpusResource returns corpus statistics.
func (s *Server) handleCorpusResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	state := s.ports.Sync.State()

	// Per-type document counts.
	byType := make(map[string]int)
	for _, doc := range state.Corpus {
		byType[doc.DisplayType]++
	}

	stats := struct {
		Phase      string         `json:"phase"`
		TotalCount int            `json:"total_count"`
		NewCount   int            `json:"new_count"`
		ByType     map[string]int `json:"by_type"`
		LastSynced string         `json:"last_synced,omitempty"`
		CommitSHA  string         `json:"commit_sha,omitempty"`
	}{
		Phase:      string(state.Phase),
		TotalCount: state.TotalCount,
		NewCount:   len(state.NewIDs),
		ByType:     byType,
	}
	if !state.LastSyncedAt.IsZero() {
		stats.LastSynced = state.LastSyncedAt.Format(time.RFC3339)
	}
	if state.Provenance != nil {
		stats.CommitSHA = state.Provenance.CommitSHA
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentContentResource returns the content of a document.
func (s *Server) handleDocumentContentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc := s.ports.Sync.State().Corpus.ByID(docID)
	if doc == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// The corpus mostly carries summaries; full text is present only
	// for content-bearing categories.
	content := doc.FullContent
	if content == "" {
		content = doc.ChunkContent
	}
	if content == "" {
		content = doc.Summary
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like
// gazette://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
