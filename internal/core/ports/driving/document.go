package driving

import (
	"context"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
)

// DocumentService manages the lifecycle of an owner's documents
type DocumentService interface {
	// Ingest extracts, stores, and indexes an uploaded PDF. The document is
	// either fully visible (metadata, pages, and index postings) or not
	// added at all.
	Ingest(ctx context.Context, ownerID, displayName string, content []byte) (*domain.DocumentInfo, error)

	// List returns the owner's documents in insertion order
	List(ctx context.Context, ownerID string) ([]*domain.DocumentInfo, error)

	// Remove deletes a document and its index postings
	Remove(ctx context.Context, ownerID, documentID string) error

	// Usage reports the owner's quota consumption
	Usage(ctx context.Context, ownerID string) (*domain.OwnerUsage, error)
}
