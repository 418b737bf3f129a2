package domain

// RawDocument is a document as published in the lk_legal_docs data files,
// before normalisation. Every field except the identifier is optional in
// practice; the normaliser decides what is acceptable.
type RawDocument struct {
	DocTypeName   string         `json:"doc_type_name"`
	ID            string         `json:"id"`
	Date          string         `json:"date"`
	Description   string         `json:"description"`
	FullContent   string         `json:"full_content,omitempty"`
	ChunkContent  string         `json:"chunk_content,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ChunkMetadata map[string]any `json:"chunk_metadata,omitempty"`
}
