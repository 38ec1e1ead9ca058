package driven

import (
	"context"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
)

// ArchiveEncoder serializes named byte entries into a downloadable container.
// The core only selects and orders entries; the container format is the
// encoder's concern.
type ArchiveEncoder interface {
	Encode(ctx context.Context, entries []domain.ArchiveEntry) ([]byte, error)
}
