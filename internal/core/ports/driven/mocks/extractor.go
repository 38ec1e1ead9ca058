package mocks

import (
	"context"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driven"
)

// Ensure MockExtractor implements TextExtractor
var _ driven.TextExtractor = (*MockExtractor)(nil)

// MockExtractor is a mock implementation of TextExtractor for testing.
// By default it treats the input as UTF-8 text and splits pages on form
// feeds, so tests can hand it plain strings instead of real PDFs.
type MockExtractor struct {
	// ExtractFn overrides the default behavior when set
	ExtractFn func(ctx context.Context, content []byte) ([]string, error)

	// Calls counts Extract invocations
	Calls int
}

// NewMockExtractor creates a new MockExtractor
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

func (m *MockExtractor) Extract(ctx context.Context, content []byte) ([]string, error) {
	m.Calls++
	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, content)
	}
	if len(content) == 0 {
		return nil, domain.ErrMalformedDocument
	}
	var pages []string
	start := 0
	for i, b := range content {
		if b == '\f' {
			pages = append(pages, string(content[start:i]))
			start = i + 1
		}
	}
	pages = append(pages, string(content[start:]))
	return pages, nil
}
