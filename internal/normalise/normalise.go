// Package normalise converts raw published documents into the
// canonical domain form. Normalisation is pure and deterministic:
// the same raw record always yields the same document or the same
// rejection.
package normalise

import (
	"fmt"
	"strings"
	"time"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// displayTypes maps the publisher's type tags to display labels.
// Unknown tags pass through unchanged so new categories keep working
// without a release.
var displayTypes = map[string]string{
	"acts":           "Act",
	"bills":          "Bill",
	"forms":          "Form",
	"notices":        "Notice",
	"gazettes":       "Gazette",
	"extra-gazettes": "Extraordinary Gazette",
}

// dateLayouts are the accepted raw date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// DisplayType returns the display label for a raw type tag.
func DisplayType(rawType string) string {
	if label, ok := displayTypes[rawType]; ok {
		return label
	}
	return rawType
}

// Document normalises a raw document. A record without an ID or with a
// date that parses under no accepted layout is rejected.
func Document(raw *domain.RawDocument) (*domain.Document, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return nil, domain.ErrMissingID
	}

	date, err := parseDate(raw.Date)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}

	title := strings.TrimSpace(raw.Description)
	if title == "" {
		title = "Untitled"
	}

	return &domain.Document{
		ID:             id,
		Title:          title,
		Date:           date,
		DisplayType:    DisplayType(raw.DocTypeName),
		RawTypeName:    raw.DocTypeName,
		Summary:        title,
		FullContent:    raw.FullContent,
		ChunkContent:   raw.ChunkContent,
		Metadata:       raw.Metadata,
		ChunkMetadata:  raw.ChunkMetadata,
		HasFullContent: raw.FullContent != "",
		IsChunk:        raw.ChunkContent != "",
	}, nil
}

// All normalises a batch, returning the surviving documents and the
// rejected count.
func All(raws []domain.RawDocument) ([]domain.Document, int) {
	docs := make([]domain.Document, 0, len(raws))
	rejected := 0
	for i := range raws {
		doc, err := Document(&raws[i])
		if err != nil {
			rejected++
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, rejected
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidDate, s)
}
