package services

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-pdf/internal/index"
)

// DefaultExcerptRadius is the number of runes of context kept on each
// side of a match when building excerpts.
const DefaultExcerptRadius = 80

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// searchService implements the SearchService interface
type searchService struct {
	library       driven.DocumentLibrary
	excerptRadius int
}

// NewSearchService creates a new SearchService. excerptRadius <= 0 selects
// the default.
func NewSearchService(library driven.DocumentLibrary, excerptRadius int) driving.SearchService {
	if excerptRadius <= 0 {
		excerptRadius = DefaultExcerptRadius
	}
	return &searchService{
		library:       library,
		excerptRadius: excerptRadius,
	}
}

// Search finds every case-insensitive occurrence of the term in the owner's
// documents. The index supplies a coarse page shortlist for the first query
// token; each shortlisted page is then re-scanned for the literal term so
// offsets land on the original text.
func (s *searchService) Search(ctx context.Context, ownerID, term string) (*domain.SearchResult, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidInput
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, domain.ErrEmptyTerm
	}

	start := time.Now()

	// The shortlist token is the first token of the query. Terms containing
	// it as a substring cover every page the literal term can appear on.
	// Queries with no tokenizable content fall back to a full page scan.
	var token string
	if tokens := index.Tokenize(term); len(tokens) > 0 {
		token = tokens[0].Term
	}

	candidates, err := s.library.CandidatePages(ctx, ownerID, token)
	if err != nil {
		return nil, err
	}

	needle := foldRunes(term)
	groups := make([]*domain.DocumentMatches, 0)
	byDoc := make(map[string]*domain.DocumentMatches)

	for _, cand := range candidates {
		spans := matchSpans(cand.Text, needle)
		if len(spans) == 0 {
			continue
		}
		group, ok := byDoc[cand.DocumentID]
		if !ok {
			group = &domain.DocumentMatches{
				DocumentID:  cand.DocumentID,
				DisplayName: cand.DisplayName,
				PageCount:   cand.PageCount,
			}
			byDoc[cand.DocumentID] = group
			groups = append(groups, group)
		}
		for _, sp := range spans {
			group.Matches = append(group.Matches, domain.Match{
				Page:    cand.Page,
				Offset:  sp.offset,
				Excerpt: excerpt(cand.Text, sp.offset, sp.length, s.excerptRadius),
			})
		}
	}

	return &domain.SearchResult{
		Term:   term,
		Groups: groups,
		Took:   time.Since(start),
	}, nil
}

// span is one match in a page, as byte offset and byte length into the
// original text.
type span struct {
	offset int
	length int
}

// foldRunes lowercases the needle rune by rune, matching how matchSpans
// folds the haystack.
func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// matchSpans finds every non-overlapping case-insensitive occurrence of the
// needle in text. Comparison is rune-wise over the original text, so the
// reported byte offsets are valid even where lowercasing would change a
// rune's encoded length.
func matchSpans(text string, needle []rune) []span {
	if len(needle) == 0 {
		return nil
	}
	var spans []span
	pos := 0
	for pos < len(text) {
		end, ok := matchAt(text, pos, needle)
		if ok {
			spans = append(spans, span{offset: pos, length: end - pos})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	return spans
}

// matchAt reports whether the needle matches text starting at byte pos,
// returning the byte offset just past the match.
func matchAt(text string, pos int, needle []rune) (int, bool) {
	i := pos
	for _, want := range needle {
		if i >= len(text) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.ToLower(r) != want {
			return 0, false
		}
		i += size
	}
	return i, true
}

// excerpt returns the matched text with up to radius runes of context on
// each side, clipped to the page bounds.
func excerpt(text string, offset, length, radius int) string {
	start := offset
	for i := 0; i < radius && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	end := offset + length
	for i := 0; i < radius && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return text[start:end]
}
