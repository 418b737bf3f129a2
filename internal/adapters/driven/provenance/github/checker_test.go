package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

func newTestChecker(t *testing.T, handler http.HandlerFunc) *Checker {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	checker := New("nuuuwan", "lk_legal_docs", "data/all.json", server.Client())
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	checker.client.BaseURL = base
	return checker
}

func TestLatestReturnsNewestCommit(t *testing.T) {
	checker := newTestChecker(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/nuuuwan/lk_legal_docs/commits", r.URL.Path)
		assert.Equal(t, "data/all.json", r.URL.Query().Get("path"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		fmt.Fprint(w, `[{
			"sha": "abc123def456",
			"html_url": "https://github.com/nuuuwan/lk_legal_docs/commit/abc123def456",
			"commit": {
				"message": "regenerate data",
				"committer": {"date": "2024-03-01T06:30:00Z"}
			}
		}]`)
	})

	prov, err := checker.Latest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "abc123def456", prov.CommitSHA)
	assert.Equal(t, "regenerate data", prov.Message)
	assert.Equal(t, 2024, prov.CommitDate.Year())
	assert.Contains(t, prov.CommitURL, "abc123def456")
}

func TestLatestNoCommits(t *testing.T) {
	checker := newTestChecker(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	_, err := checker.Latest(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLatestAPIError(t *testing.T) {
	checker := newTestChecker(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := checker.Latest(context.Background())

	assert.Error(t, err)
}

func TestNewDefaultTargetsUpstreamRepo(t *testing.T) {
	checker := NewDefault()

	assert.Equal(t, DefaultOwner, checker.owner)
	assert.Equal(t, DefaultRepo, checker.repo)
	assert.Equal(t, DefaultPath, checker.path)
}
