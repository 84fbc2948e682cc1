package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*Document, error)
	SetPageCount(ctx context.Context, id uuid.UUID, pages int) error
	SignedURL(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
