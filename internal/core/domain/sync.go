package domain

import "time"

// RefreshInterval is how long a cached corpus stays fresh before the
// next Sync triggers a full fetch.
const RefreshInterval = time.Hour

// MaxNewDocuments caps how many unseen document IDs are surfaced per
// sync cycle.
const MaxNewDocuments = 50

// SyncPhase describes where a sync cycle is in its lifecycle.
type SyncPhase string

const (
	SyncIdle    SyncPhase = "idle"
	SyncRunning SyncPhase = "syncing"
	SyncSuccess SyncPhase = "success"
	SyncError   SyncPhase = "error"
)

// SyncStats counts what happened to raw documents during one cycle.
type SyncStats struct {
	Fetched    int `json:"fetched"`
	Normalised int `json:"normalised"`
	Rejected   int `json:"rejected"`
}

// SyncState is the published outcome of the sync engine. Consumers get
// a copy; the engine owns the canonical value.
type SyncState struct {
	Phase        SyncPhase   `json:"phase"`
	Corpus       Corpus      `json:"-"`
	TotalCount   int         `json:"total_count"`
	LastSyncedAt time.Time   `json:"last_synced_at"`
	NewIDs       []string    `json:"new_ids"`
	Stats        SyncStats   `json:"stats"`
	Provenance   *Provenance `json:"provenance,omitempty"`
	Source       string      `json:"source,omitempty"`
	Err          string      `json:"error,omitempty"`
}

// SyncProgress is one event on the sync progress stream.
type SyncProgress struct {
	Stage     string  `json:"stage"`
	Percent   float64 `json:"percent"`
	Processed int     `json:"processed"`
	Total     int     `json:"total"`
}
