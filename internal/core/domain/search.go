package domain

import "time"

// Match is a single occurrence of the search term on one page. Offset is the
// byte offset of the hit within that page's stored text.
type Match struct {
	Page    int    `json:"page"`
	Offset  int    `json:"offset"`
	Excerpt string `json:"excerpt"`
}

// DocumentMatches groups the matches found in one document. Matches are
// ordered by page ascending, then by offset ascending.
type DocumentMatches struct {
	DocumentID  string  `json:"document_id"`
	DisplayName string  `json:"display_name"`
	PageCount   int     `json:"page_count"`
	Matches     []Match `json:"matches"`
}

// SearchResult represents the result of a search query. Groups follow the
// owner's document insertion order and never contain a zero-match document.
// An empty Groups slice is a valid "no matches" outcome, not an error.
type SearchResult struct {
	Term   string             `json:"term"`
	Groups []*DocumentMatches `json:"groups"`
	Took   time.Duration      `json:"took" swaggertype:"integer" example:"1500000"`
}

// TotalMatches counts matches across all groups.
func (r *SearchResult) TotalMatches() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Matches)
	}
	return n
}
