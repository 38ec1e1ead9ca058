// Package archive implements the ArchiveEncoder port as a zip container.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ArchiveEncoder = (*ZipEncoder)(nil)

// ZipEncoder writes archive entries as a zip file in memory.
type ZipEncoder struct{}

// NewZipEncoder creates a new ZipEncoder
func NewZipEncoder() *ZipEncoder {
	return &ZipEncoder{}
}

// Encode writes the entries into a zip archive in the given order.
func (e *ZipEncoder) Encode(ctx context.Context, entries []domain.ArchiveEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	now := time.Now()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := w.CreateHeader(&zip.FileHeader{
			Name:     entry.Name,
			Method:   zip.Deflate,
			Modified: now,
		})
		if err != nil {
			return nil, fmt.Errorf("create archive entry %q: %w", entry.Name, err)
		}
		if _, err := f.Write(entry.Content); err != nil {
			return nil, fmt.Errorf("write archive entry %q: %w", entry.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
