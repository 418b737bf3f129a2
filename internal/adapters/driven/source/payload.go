// Package source holds the payload codec shared by the document source
// adapters.
package source

import (
	"encoding/json"
	"fmt"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// envelope covers the wrapped payload shapes the publisher has used
// over time. Exactly one of the fields is populated.
type envelope struct {
	Items     []domain.RawDocument `json:"items"`
	Docs      []domain.RawDocument `json:"docs"`
	Documents []domain.RawDocument `json:"documents"`
}

// DecodeRawDocuments parses a published payload. Accepted shapes: a
// bare JSON array of raw documents, or an object wrapping the array
// under "items", "docs" or "documents".
func DecodeRawDocuments(data []byte) ([]domain.RawDocument, error) {
	var bare []domain.RawDocument
	if err := json.Unmarshal(data, &bare); err == nil {
		return bare, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: unrecognised payload shape: %w", domain.ErrInvalidInput, err)
	}
	switch {
	case env.Items != nil:
		return env.Items, nil
	case env.Docs != nil:
		return env.Docs, nil
	case env.Documents != nil:
		return env.Documents, nil
	}
	return nil, fmt.Errorf("%w: payload has no document array", domain.ErrInvalidInput)
}
