package domain

import "time"

// Provenance identifies the upstream commit a corpus was generated from.
type Provenance struct {
	CommitSHA  string    `json:"commit_sha"`
	CommitURL  string    `json:"commit_url"`
	CommitDate time.Time `json:"commit_date"`
	Message    string    `json:"message,omitempty"`
}
