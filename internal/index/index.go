// Package index implements the in-memory inverted index used by the document
// library. It maps lowercased terms to posting lists of per-occurrence
// (document, page, offset) records, supports purge-by-document, and serves the
// coarse candidate-page filter that keeps searches from scanning every page.
//
// The index is not safe for concurrent use on its own; the owning library
// shard serializes access.
package index

import "strings"

// Posting records a single occurrence of a term: which document, which page
// (1-based), and the byte offset and length of the occurrence within that
// page's text.
type Posting struct {
	DocID  string
	Page   int
	Offset int
	Length int
}

// PageRef identifies one page of one document.
type PageRef struct {
	DocID string
	Page  int
}

// Index is an inverted index over the pages of a set of documents.
type Index struct {
	postings map[string][]Posting
	docTerms map[string]map[string]struct{} // docID -> terms it contributed
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		postings: make(map[string][]Posting),
		docTerms: make(map[string]map[string]struct{}),
	}
}

// Ingest tokenizes every page of a document and adds one posting per token
// occurrence. Pages are 1-based. Ingesting the same document twice without a
// purge in between is a caller bug and would duplicate postings.
func (ix *Index) Ingest(docID string, pages []string) {
	terms := ix.docTerms[docID]
	if terms == nil {
		terms = make(map[string]struct{})
		ix.docTerms[docID] = terms
	}
	for pageIdx, text := range pages {
		for _, tok := range Tokenize(text) {
			ix.postings[tok.Term] = append(ix.postings[tok.Term], Posting{
				DocID:  docID,
				Page:   pageIdx + 1,
				Offset: tok.Offset,
				Length: tok.Length,
			})
			terms[tok.Term] = struct{}{}
		}
	}
}

// Purge removes every posting for a document as one unit. Terms left with an
// empty posting list are dropped from the vocabulary.
func (ix *Index) Purge(docID string) {
	terms, ok := ix.docTerms[docID]
	if !ok {
		return
	}
	for term := range terms {
		list := ix.postings[term]
		kept := list[:0]
		for _, p := range list {
			if p.DocID != docID {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(ix.postings, term)
		} else {
			ix.postings[term] = kept
		}
	}
	delete(ix.docTerms, docID)
}

// Postings returns the posting list for an exact term.
func (ix *Index) Postings(term string) []Posting {
	return ix.postings[term]
}

// Terms returns the vocabulary size.
func (ix *Index) Terms() int {
	return len(ix.postings)
}

// CandidatePages returns the deduplicated set of pages whose text contains
// token as a substring of at least one indexed term. Substring containment
// (not exact lookup) keeps partial-word queries like "qui" from missing pages
// that only hold "quickly"; the caller confirms real hits with a literal scan.
func (ix *Index) CandidatePages(token string) []PageRef {
	seen := make(map[PageRef]struct{})
	var refs []PageRef
	for term, list := range ix.postings {
		if token != "" && !strings.Contains(term, token) {
			continue
		}
		for _, p := range list {
			ref := PageRef{DocID: p.DocID, Page: p.Page}
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}
			refs = append(refs, ref)
		}
	}
	return refs
}
