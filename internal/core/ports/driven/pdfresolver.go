package driven

import (
	"context"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
)

// PDFResolver locates the source PDF for a document, preferring the
// English version, then Sinhala, then Tamil, then any available
// language. Returns ErrPDFUnavailable when no PDF exists.
type PDFResolver interface {
	Resolve(ctx context.Context, doc *domain.Document) (string, error)
}
