package driven

import (
	"context"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// ProvenanceChecker reports which upstream commit the published data
// was generated from. Provenance is informational: callers treat
// failures as a missing value, never as a sync failure.
type ProvenanceChecker interface {
	// Latest returns the most recent commit touching the published
	// data file.
	Latest(ctx context.Context) (*domain.Provenance, error)
}
