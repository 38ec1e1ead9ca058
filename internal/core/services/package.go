package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driving"
)

// Ensure packageService implements PackageService
var _ driving.PackageService = (*packageService)(nil)

// packageService implements the PackageService interface
type packageService struct {
	library driven.DocumentLibrary
	encoder driven.ArchiveEncoder
}

// NewPackageService creates a new PackageService
func NewPackageService(
	library driven.DocumentLibrary,
	encoder driven.ArchiveEncoder,
) driving.PackageService {
	return &packageService{
		library: library,
		encoder: encoder,
	}
}

// Package bundles the requested documents into an archive. Duplicate ids
// collapse to one entry, entries follow the library's ingestion order, and
// the call fails listing every missing id rather than producing a partial
// archive.
func (s *packageService) Package(ctx context.Context, ownerID string, documentIDs []string) ([]byte, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(documentIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}

	requested := make(map[string]struct{}, len(documentIDs))
	for _, id := range documentIDs {
		if id == "" {
			return nil, domain.ErrInvalidInput
		}
		requested[id] = struct{}{}
	}

	// Walk the owner's library in ingestion order, picking the requested
	// documents as they appear.
	infos, err := s.library.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var docs []*domain.Document
	for _, info := range infos {
		if _, ok := requested[info.ID]; !ok {
			continue
		}
		doc, err := s.library.Get(ctx, ownerID, info.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
		delete(requested, info.ID)
	}

	if len(requested) > 0 {
		missing := make([]string, 0, len(requested))
		for _, id := range documentIDs {
			if _, ok := requested[id]; ok {
				missing = append(missing, id)
				delete(requested, id)
			}
		}
		return nil, &domain.MissingDocumentsError{IDs: missing}
	}

	entries := make([]domain.ArchiveEntry, 0, len(docs))
	used := make(map[string]int)
	for _, doc := range docs {
		entries = append(entries, domain.ArchiveEntry{
			Name:    uniqueName(doc.DisplayName, used),
			Content: doc.Content,
		})
	}

	data, err := s.encoder.Encode(ctx, entries)
	if err != nil {
		return nil, err
	}

	slog.Info("documents packaged",
		"owner_id", ownerID,
		"documents", len(entries),
		"bytes", len(data))

	return data, nil
}

// uniqueName disambiguates duplicate display names by appending " (2)",
// " (3)" and so on before the extension.
func uniqueName(name string, used map[string]int) string {
	used[name]++
	if used[name] == 1 {
		return name
	}
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for {
		candidate := fmt.Sprintf("%s (%d)%s", base, used[name], ext)
		if used[candidate] == 0 {
			used[candidate]++
			return candidate
		}
		used[name]++
	}
}
