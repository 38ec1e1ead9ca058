package services

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface
type documentService struct {
	extractor driven.TextExtractor
	library   driven.DocumentLibrary
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	extractor driven.TextExtractor,
	library driven.DocumentLibrary,
) driving.DocumentService {
	return &documentService{
		extractor: extractor,
		library:   library,
	}
}

// Ingest extracts per-page text from the uploaded bytes and commits the
// document to the owner's library. Extraction runs before any library
// lock is taken; the library re-checks the quota at commit time.
func (s *documentService) Ingest(ctx context.Context, ownerID, displayName string, content []byte) (*domain.DocumentInfo, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidInput
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(content) == 0 {
		return nil, domain.ErrMalformedDocument
	}

	// Cheap precheck so oversized owners fail before the expensive
	// extraction. The authoritative check happens inside Add.
	usage, err := s.library.Usage(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	quota := s.library.Quota()
	if quota.MaxDocuments > 0 && usage.Documents >= quota.MaxDocuments {
		return nil, domain.ErrQuotaExceeded
	}
	if quota.MaxTotalBytes > 0 && usage.TotalBytes+int64(len(content)) > quota.MaxTotalBytes {
		return nil, domain.ErrQuotaExceeded
	}

	pages, err := s.extractor.Extract(ctx, content)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, domain.ErrMalformedDocument
	}

	doc := &domain.Document{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		DisplayName: displayName,
		ByteSize:    int64(len(content)),
		PageCount:   len(pages),
		Pages:       pages,
		Content:     bytes.Clone(content),
		IngestedAt:  time.Now(),
	}

	if err := s.library.Add(ctx, doc); err != nil {
		return nil, err
	}

	slog.Info("document ingested",
		"document_id", doc.ID,
		"owner_id", ownerID,
		"pages", doc.PageCount,
		"bytes", doc.ByteSize)

	return doc.Info(), nil
}

// List returns the owner's document metadata in ingestion order
func (s *documentService) List(ctx context.Context, ownerID string) ([]*domain.DocumentInfo, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.library.List(ctx, ownerID)
}

// Remove deletes a document and all of its index postings
func (s *documentService) Remove(ctx context.Context, ownerID, documentID string) error {
	if ownerID == "" || documentID == "" {
		return domain.ErrInvalidInput
	}
	if err := s.library.Remove(ctx, ownerID, documentID); err != nil {
		return err
	}
	slog.Info("document removed", "document_id", documentID, "owner_id", ownerID)
	return nil
}

// Usage reports the owner's current consumption against the quota
func (s *documentService) Usage(ctx context.Context, ownerID string) (*domain.OwnerUsage, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.library.Usage(ctx, ownerID)
}
