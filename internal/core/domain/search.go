package domain

import "sort"

// HighlightRange is a half-open match span within a field: the match
// covers [Start, Start+Length).
type HighlightRange struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// Highlights carries the merged match spans per indexed field.
type Highlights struct {
	Title   []HighlightRange `json:"title,omitempty"`
	Summary []HighlightRange `json:"summary,omitempty"`
	Type    []HighlightRange `json:"type,omitempty"`
}

// SearchResult is one ranked hit with its document and highlights.
type SearchResult struct {
	Document   Document   `json:"document"`
	Score      float64    `json:"score"`
	Highlights Highlights `json:"highlights"`
}

// SearchOptions control pagination and type filtering of a query.
type SearchOptions struct {
	Limit  int
	Offset int
	Types  []string
}

// MergeRanges collapses overlapping and adjacent highlight ranges into
// their interval union, sorted by start position. The input is not
// modified.
func MergeRanges(ranges []HighlightRange) []HighlightRange {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([]HighlightRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Length > sorted[j].Length
	})

	merged := []HighlightRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.Start+last.Length {
			if end := r.Start + r.Length; end > last.Start+last.Length {
				last.Length = end - last.Start
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
