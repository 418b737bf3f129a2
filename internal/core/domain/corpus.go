package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Corpus is a deduplicated document collection sorted by date, newest
// first. Build one with NewCorpus; the ordering and uniqueness
// invariants are not enforced on a bare slice.
type Corpus []Document

// NewCorpus deduplicates documents by ID and sorts them newest first.
// When two documents share an ID the one with the later date wins; on
// equal dates the later occurrence wins. The sort is stable so equal
// dates keep their input order.
func NewCorpus(docs []Document) Corpus {
	byID := make(map[string]int, len(docs))
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if i, ok := byID[d.ID]; ok {
			if !d.Date.Before(out[i].Date) {
				out[i] = d
			}
			continue
		}
		byID[d.ID] = len(out)
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// IDs returns the corpus document IDs in corpus order.
func (c Corpus) IDs() []string {
	ids := make([]string, len(c))
	for i, d := range c {
		ids[i] = d.ID
	}
	return ids
}

// ByID returns the document with the given ID, or nil.
func (c Corpus) ByID(id string) *Document {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}

// Prefix returns the first n documents, or the whole corpus when it is
// shorter than n.
func (c Corpus) Prefix(n int) Corpus {
	if n < 0 {
		n = 0
	}
	if len(c) <= n {
		return c
	}
	return c[:n]
}

// NewSince returns the IDs of documents not present in seen, in corpus
// order (newest first), capped at limit. A limit of 0 or less means no
// cap.
func (c Corpus) NewSince(seen map[string]struct{}, limit int) []string {
	var ids []string
	for _, d := range c {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		ids = append(ids, d.ID)
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	return ids
}

// Fingerprint returns a digest of the corpus identity: the ordered IDs
// and dates. An unchanged fingerprint means the search index for this
// corpus can be reused.
func (c Corpus) Fingerprint() string {
	h := sha256.New()
	for _, d := range c {
		h.Write([]byte(d.ID))
		h.Write([]byte{0})
		h.Write([]byte(d.Date.UTC().Format("2006-01-02T15:04:05Z")))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
