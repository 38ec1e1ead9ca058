package driven

import "context"

// TextExtractor turns raw PDF bytes into per-page text, in page-tree order.
// A page with no decodable text yields an empty string; only a document in
// which no page can be located at all is an error. Implementations must be
// pure transforms of the input bytes - no filesystem, no network - so they
// are safe to run concurrently without any owner lock held.
type TextExtractor interface {
	// Extract parses content and returns one text string per page.
	// Fails with ErrMalformedDocument, ErrSizeLimitExceeded (via
	// SizeLimitError), or ErrUnsupportedEncoding.
	Extract(ctx context.Context, content []byte) ([]string, error)
}
