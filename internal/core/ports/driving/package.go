package driving

import "context"

// PackageService assembles matched documents into a downloadable archive
type PackageService interface {
	// Package returns archive bytes holding the original content of each
	// requested document. Fails with MissingDocumentsError (ErrNotFound)
	// naming every stale id if any document no longer exists.
	Package(ctx context.Context, ownerID string, documentIDs []string) ([]byte, error)
}
