package domain

import "time"

// Document represents an ingested PDF with its extracted page texts and the
// original byte content. Pages and Content are immutable after ingestion; the
// library shard holding the document is the only owner of Content.
type Document struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	DisplayName string    `json:"display_name"`
	ByteSize    int64     `json:"byte_size"`
	PageCount   int       `json:"page_count"`
	Pages       []string  `json:"-"`
	Content     []byte    `json:"-"`
	IngestedAt  time.Time `json:"ingested_at"`
}

// Info returns the metadata view of the document.
func (d *Document) Info() *DocumentInfo {
	return &DocumentInfo{
		ID:          d.ID,
		DisplayName: d.DisplayName,
		ByteSize:    d.ByteSize,
		PageCount:   d.PageCount,
		IngestedAt:  d.IngestedAt,
	}
}

// DocumentInfo is the metadata view returned by list and ingest operations.
// Page count is a structured field here, never encoded into the display name.
type DocumentInfo struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	ByteSize    int64     `json:"byte_size"`
	PageCount   int       `json:"page_count"`
	IngestedAt  time.Time `json:"ingested_at"`
}

// OwnerQuota bounds what a single owner may store.
type OwnerQuota struct {
	MaxDocuments  int
	MaxTotalBytes int64
}

// DefaultOwnerQuota returns sensible defaults
func DefaultOwnerQuota() OwnerQuota {
	return OwnerQuota{
		MaxDocuments:  500,
		MaxTotalBytes: 1 << 30, // 1 GiB
	}
}

// OwnerUsage reports an owner's current consumption against the quota.
type OwnerUsage struct {
	Documents  int   `json:"documents"`
	TotalBytes int64 `json:"total_bytes"`
}

// CandidatePage is one page shortlisted for a search scan. The text is a
// reference to the stored page text, captured under the shard's read lock.
type CandidatePage struct {
	DocumentID  string
	DisplayName string
	PageCount   int
	Page        int // 1-based
	Text        string
}

// ArchiveEntry pairs a file name with original document bytes for the
// archive-encoding collaborator.
type ArchiveEntry struct {
	Name    string
	Content []byte
}
