// Package memory implements the DocumentLibrary port as per-owner in-memory
// shards. Each shard bundles the owner's documents and their inverted index
// behind a single RWMutex, so store insertion and index registration commit
// as one atomic step and searches read a consistent snapshot. Shards for
// different owners never share a lock.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-pdf/internal/index"
)

// Verify interface compliance
var _ driven.DocumentLibrary = (*Library)(nil)

// Library holds every owner's document shard.
type Library struct {
	mu     sync.Mutex // guards the shard map only
	shards map[string]*shard
	quota  domain.OwnerQuota
}

// shard is one owner's documents plus their index. docs preserves insertion
// order; byID is the lookup map over the same documents.
type shard struct {
	mu    sync.RWMutex
	docs  []*domain.Document
	byID  map[string]*domain.Document
	index *index.Index
	bytes int64
}

// NewLibrary creates a Library enforcing the given per-owner quota.
func NewLibrary(quota domain.OwnerQuota) *Library {
	return &Library{
		shards: make(map[string]*shard),
		quota:  quota,
	}
}

// Quota returns the per-owner quota the library enforces.
func (l *Library) Quota() domain.OwnerQuota {
	return l.quota
}

func (l *Library) shardFor(ownerID string) *shard {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.shards[ownerID]
	if !ok {
		s = &shard{
			byID:  make(map[string]*domain.Document),
			index: index.New(),
		}
		l.shards[ownerID] = s
	}
	return s
}

// lookup returns the owner's shard without creating one.
func (l *Library) lookup(ownerID string) *shard {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.shards[ownerID]
}

// Add stores the document and registers it with the index under one write
// lock. The quota is re-checked here: the service's precheck ran before
// extraction, outside any lock, and may be stale.
func (l *Library) Add(ctx context.Context, doc *domain.Document) error {
	s := l.shardFor(doc.OwnerID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[doc.ID]; exists {
		return domain.ErrAlreadyExists
	}
	if l.quota.MaxDocuments > 0 && len(s.docs)+1 > l.quota.MaxDocuments {
		return domain.ErrQuotaExceeded
	}
	if l.quota.MaxTotalBytes > 0 && s.bytes+doc.ByteSize > l.quota.MaxTotalBytes {
		return domain.ErrQuotaExceeded
	}

	s.docs = append(s.docs, doc)
	s.byID[doc.ID] = doc
	s.bytes += doc.ByteSize
	s.index.Ingest(doc.ID, doc.Pages)
	return nil
}

// List returns metadata in insertion order.
func (l *Library) List(ctx context.Context, ownerID string) ([]*domain.DocumentInfo, error) {
	s := l.lookup(ownerID)
	if s == nil {
		return []*domain.DocumentInfo{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]*domain.DocumentInfo, len(s.docs))
	for i, doc := range s.docs {
		infos[i] = doc.Info()
	}
	return infos, nil
}

// Get retrieves one document including pages and original content.
func (l *Library) Get(ctx context.Context, ownerID, documentID string) (*domain.Document, error) {
	s := l.lookup(ownerID)
	if s == nil {
		return nil, domain.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.byID[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// Remove deletes the document and purges its postings under one write lock,
// so concurrent readers see either the full document or none of it.
func (l *Library) Remove(ctx context.Context, ownerID, documentID string) error {
	s := l.lookup(ownerID)
	if s == nil {
		return domain.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.byID[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.byID, documentID)
	for i, d := range s.docs {
		if d.ID == documentID {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			break
		}
	}
	s.bytes -= doc.ByteSize
	s.index.Purge(documentID)
	return nil
}

// Usage reports current consumption for the cheap pre-extraction quota check.
func (l *Library) Usage(ctx context.Context, ownerID string) (*domain.OwnerUsage, error) {
	s := l.lookup(ownerID)
	if s == nil {
		return &domain.OwnerUsage{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &domain.OwnerUsage{
		Documents:  len(s.docs),
		TotalBytes: s.bytes,
	}, nil
}

// CandidatePages snapshots the pages shortlisted by the coarse token filter
// under a single read lock, ordered by document insertion order then page
// number. An empty token selects every page (substring queries that tokenize
// to nothing still have to be answerable).
func (l *Library) CandidatePages(ctx context.Context, ownerID, token string) ([]*domain.CandidatePage, error) {
	s := l.lookup(ownerID)
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var shortlist map[string]map[int]struct{}
	if token != "" {
		shortlist = make(map[string]map[int]struct{})
		for _, ref := range s.index.CandidatePages(token) {
			pages, ok := shortlist[ref.DocID]
			if !ok {
				pages = make(map[int]struct{})
				shortlist[ref.DocID] = pages
			}
			pages[ref.Page] = struct{}{}
		}
	}

	var out []*domain.CandidatePage
	for _, doc := range s.docs {
		var pages map[int]struct{}
		if shortlist != nil {
			pages = shortlist[doc.ID]
			if pages == nil {
				continue
			}
		}
		for pageIdx, text := range doc.Pages {
			pageNo := pageIdx + 1
			if pages != nil {
				if _, ok := pages[pageNo]; !ok {
					continue
				}
			}
			out = append(out, &domain.CandidatePage{
				DocumentID:  doc.ID,
				DisplayName: doc.DisplayName,
				PageCount:   doc.PageCount,
				Page:        pageNo,
				Text:        text,
			})
		}
	}
	return out, nil
}
