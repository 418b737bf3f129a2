// Package github looks up which upstream commit the published data was
// generated from, via the GitHub commits API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
	"github.com/lankadocs/gazette-cli/internal/logger"
)

// Default upstream data repository.
const (
	DefaultOwner = "nuuuwan"
	DefaultRepo  = "lk_legal_docs"
	DefaultPath  = "data/all.json"
)

// Checker queries the latest commit touching the published data file.
// Unauthenticated GitHub API calls are tightly rate limited upstream,
// so the checker adds its own limiter and callers treat failures as a
// missing value.
type Checker struct {
	client  *github.Client
	owner   string
	repo    string
	path    string
	limiter *rate.Limiter
}

var _ driven.ProvenanceChecker = (*Checker)(nil)

// New creates a checker for owner/repo, watching path. A nil
// httpClient uses a 30-second-timeout default.
func New(owner, repo, path string, httpClient *http.Client) *Checker {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Checker{
		client:  github.NewClient(httpClient),
		owner:   owner,
		repo:    repo,
		path:    path,
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 2),
	}
}

// NewDefault creates a checker for the canonical data repository.
func NewDefault() *Checker {
	return New(DefaultOwner, DefaultRepo, DefaultPath, nil)
}

// Latest returns the most recent commit touching the data file.
func (c *Checker) Latest(ctx context.Context) (*domain.Provenance, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	commits, _, err := c.client.Repositories.ListCommits(ctx, c.owner, c.repo, &github.CommitsListOptions{
		Path:        c.path,
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("list commits for %s/%s: %w", c.owner, c.repo, err)
	}
	if len(commits) == 0 {
		return nil, domain.ErrNotFound
	}

	commit := commits[0]
	prov := &domain.Provenance{
		CommitSHA: commit.GetSHA(),
		CommitURL: commit.GetHTMLURL(),
	}
	if inner := commit.GetCommit(); inner != nil {
		prov.Message = inner.GetMessage()
		if committer := inner.GetCommitter(); committer != nil {
			prov.CommitDate = committer.GetDate().Time
		}
	}
	logger.Debug("latest data commit: %s", prov.CommitSHA)
	return prov, nil
}
