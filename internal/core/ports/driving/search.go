package driving

import (
	"context"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
)

// SearchService executes literal substring searches over an owner's documents
type SearchService interface {
	// Search returns per-document, per-page matches with excerpts for term.
	// Fails with ErrEmptyTerm if term is blank after trimming; an empty
	// result is success, not an error.
	Search(ctx context.Context, ownerID, term string) (*domain.SearchResult, error)
}
