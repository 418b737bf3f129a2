// Package pdf resolves a document's source PDF through the published
// metadata sidecar files.
package pdf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/logger"
)

// DefaultBaseURL is the root of the published per-document metadata.
const DefaultBaseURL = "https://raw.githubusercontent.com/nuuuwan/lk_legal_docs/main/data"

// languagePreference orders the language variants. English first, then
// Sinhala, then Tamil; anything else is a last resort.
var languagePreference = []string{"en", "si", "ta"}

// metadata is the sidecar shape; only the PDF links matter here.
type metadata struct {
	LangToSourceURL map[string]string `json:"lang_to_source_url"`
}

// Resolver fetches {base}/{rawTypeName}/{year}/{id}/metadata.json and
// picks the best-language PDF link.
type Resolver struct {
	baseURL string
	client  *http.Client
}

var _ driven.PDFResolver = (*Resolver)(nil)

// New creates a resolver. A nil client uses a 30-second-timeout
// default.
func New(baseURL string, client *http.Client) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Resolver{baseURL: baseURL, client: client}
}

// Resolve returns the preferred PDF URL for the document.
func (r *Resolver) Resolve(ctx context.Context, doc *domain.Document) (string, error) {
	if doc.ID == "" || doc.RawTypeName == "" {
		return "", domain.ErrInvalidInput
	}

	url := fmt.Sprintf("%s/%s/%s/%s/metadata.json", r.baseURL, doc.RawTypeName, doc.Year(), doc.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	logger.Debug("GET %s", url)
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: no metadata for %s", domain.ErrPDFUnavailable, doc.ID)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch metadata: unexpected status %d", resp.StatusCode)
	}

	var meta metadata
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&meta); err != nil {
		return "", fmt.Errorf("decode metadata: %w", err)
	}

	return pickURL(meta.LangToSourceURL, doc.ID)
}

// pickURL applies the language preference; with no preferred language
// available, the lexically first remaining language keeps the choice
// deterministic.
func pickURL(langToURL map[string]string, docID string) (string, error) {
	for _, lang := range languagePreference {
		if url := langToURL[lang]; url != "" {
			return url, nil
		}
	}

	langs := make([]string, 0, len(langToURL))
	for lang, url := range langToURL {
		if url != "" {
			langs = append(langs, lang)
		}
	}
	if len(langs) == 0 {
		return "", fmt.Errorf("%w: document %s", domain.ErrPDFUnavailable, docID)
	}
	sort.Strings(langs)
	return langToURL[langs[0]], nil
}
