// Package extractor implements the TextExtractor port for PDF documents
// using github.com/ledongthuc/pdf.
package extractor

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TextExtractor = (*PDFExtractor)(nil)

var pdfSignature = []byte("%PDF-")

// Config holds size limits applied before and during extraction.
type Config struct {
	// MaxBytes rejects documents larger than this. 0 disables the check.
	MaxBytes int64

	// MaxPages rejects documents with more pages than this. 0 disables
	// the check.
	MaxPages int
}

// DefaultConfig returns limits suitable for typical uploads.
func DefaultConfig() Config {
	return Config{
		MaxBytes: 64 << 20, // 64 MiB
		MaxPages: 2000,
	}
}

// PDFExtractor extracts per-page plain text from PDF bytes.
type PDFExtractor struct {
	config Config
}

// NewPDFExtractor creates a PDFExtractor with the given limits.
func NewPDFExtractor(config Config) *PDFExtractor {
	return &PDFExtractor{config: config}
}

// Extract returns one string per page, in page order. Pages whose text
// cannot be decoded come back as empty strings so page numbering stays
// aligned with the document.
func (e *PDFExtractor) Extract(ctx context.Context, content []byte) (pages []string, err error) {
	if len(content) == 0 || !bytes.HasPrefix(content, pdfSignature) {
		return nil, domain.ErrMalformedDocument
	}
	if e.config.MaxBytes > 0 && int64(len(content)) > e.config.MaxBytes {
		return nil, &domain.SizeLimitError{
			What:   "document bytes",
			Limit:  e.config.MaxBytes,
			Actual: int64(len(content)),
		}
	}

	// The parser panics on some corrupt files instead of returning an
	// error. Treat both the same way.
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("pdf parser panic", "panic", r)
			pages, err = nil, domain.ErrMalformedDocument
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, domain.ErrMalformedDocument
	}

	numPages := reader.NumPage()
	if numPages < 1 {
		return nil, domain.ErrMalformedDocument
	}
	if e.config.MaxPages > 0 && numPages > e.config.MaxPages {
		return nil, &domain.SizeLimitError{
			What:   "document pages",
			Limit:  int64(e.config.MaxPages),
			Actual: int64(numPages),
		}
	}

	pages = make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("page text extraction failed", "page", i, "error", err)
			continue
		}
		pages[i-1] = text
	}
	return pages, nil
}
