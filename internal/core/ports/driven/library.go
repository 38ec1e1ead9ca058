package driven

import (
	"context"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
)

// DocumentLibrary owns the ingested documents and the search index for every
// owner scope. Store insertion and index registration commit as a single
// atomic step per owner, and removal purges index postings in the same step,
// so readers observe either the pre- or post-mutation state and never a
// half-registered document.
type DocumentLibrary interface {
	// Add stores a fully-built document and registers it with the index.
	// Fails with ErrQuotaExceeded if the owner's quota would be broken,
	// ErrAlreadyExists on a duplicate id.
	Add(ctx context.Context, doc *domain.Document) error

	// List returns metadata for the owner's documents in insertion order.
	List(ctx context.Context, ownerID string) ([]*domain.DocumentInfo, error)

	// Get retrieves one of the owner's documents, including page texts and
	// original content. Fails with ErrNotFound.
	Get(ctx context.Context, ownerID, documentID string) (*domain.Document, error)

	// Remove deletes a document and purges its index postings atomically.
	// Fails with ErrNotFound.
	Remove(ctx context.Context, ownerID, documentID string) error

	// Usage reports the owner's current consumption for quota prechecks.
	Usage(ctx context.Context, ownerID string) (*domain.OwnerUsage, error)

	// Quota returns the per-owner quota the library enforces.
	Quota() domain.OwnerQuota

	// CandidatePages returns a consistent snapshot of the owner's pages
	// shortlisted by the coarse token filter, ordered by document insertion
	// order then page number. An empty token selects every page.
	CandidatePages(ctx context.Context, ownerID, token string) ([]*domain.CandidatePage, error)
}
