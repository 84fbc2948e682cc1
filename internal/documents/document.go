// Package documents implements the document domain: upload and blob
// registration, the processing status lifecycle, metadata queries, and
// signed download URLs for review.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document lifecycle statuses. A document moves pending → processing →
// review, then completed on approval or failed on rejection. A failed
// document can re-enter processing when reworked.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusReview     = "review"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var allowedTransitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusReview, StatusFailed},
	StatusReview:     {StatusCompleted, StatusFailed},
	StatusFailed:     {StatusProcessing},
}

// CanTransition reports whether a status change is a legal lifecycle move.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Document represents an uploaded document with its metadata and blob
// storage reference. ProcessedAt is set when the document completes review.
type Document struct {
	ID          uuid.UUID  `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	PageCount   *int       `json:"page_count"`
	StorageKey  string     `json:"storage_key"`
	Status      string     `json:"status"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	ProcessedAt *time.Time `json:"processed_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new
// document. Data holds the raw file bytes. PageCount is optional and may be
// extracted by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	PageCount   *int
}
