package mocks

import (
	"bytes"
	"context"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driven"
)

// Ensure MockArchiveEncoder implements ArchiveEncoder
var _ driven.ArchiveEncoder = (*MockArchiveEncoder)(nil)

// MockArchiveEncoder is a mock implementation of ArchiveEncoder for testing.
// It records the entries it was handed and returns a trivial concatenation
// so callers can assert on selection and ordering without a real container.
type MockArchiveEncoder struct {
	// EncodeFn overrides the default behavior when set
	EncodeFn func(ctx context.Context, entries []domain.ArchiveEntry) ([]byte, error)

	// Entries holds the entries from the last Encode call
	Entries []domain.ArchiveEntry
}

// NewMockArchiveEncoder creates a new MockArchiveEncoder
func NewMockArchiveEncoder() *MockArchiveEncoder {
	return &MockArchiveEncoder{}
}

func (m *MockArchiveEncoder) Encode(ctx context.Context, entries []domain.ArchiveEntry) ([]byte, error) {
	m.Entries = entries
	if m.EncodeFn != nil {
		return m.EncodeFn(ctx, entries)
	}
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e.Name)
		buf.WriteByte('\n')
		buf.Write(e.Content)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
