package domain

import "time"

// Document is a normalised legal document ready for caching, indexing
// and display.
type Document struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Date           time.Time      `json:"date"`
	DisplayType    string         `json:"type"`
	RawTypeName    string         `json:"raw_type_name"`
	Summary        string         `json:"summary"`
	FullContent    string         `json:"full_content,omitempty"`
	ChunkContent   string         `json:"chunk_content,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ChunkMetadata  map[string]any `json:"chunk_metadata,omitempty"`
	HasFullContent bool           `json:"has_full_content"`
	IsChunk        bool           `json:"is_chunk"`
}

// Year returns the four-digit publication year, used to locate the
// document's PDF metadata sidecar.
func (d *Document) Year() string {
	return d.Date.Format("2006")
}
