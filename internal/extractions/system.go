package extractions

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for extraction domain operations.
type System interface {
	Handler() *Handler

	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Extraction, error)
	Create(ctx context.Context, cmd CreateCommand) (*Extraction, error)
	UpdateFields(ctx context.Context, documentID uuid.UUID, cmd UpdateFieldsCommand) (*Extraction, error)
	Approve(ctx context.Context, documentID uuid.UUID, cmd ApproveCommand) (*Extraction, error)
	Reject(ctx context.Context, documentID uuid.UUID, cmd RejectCommand) error
	Lookups(ctx context.Context) (*LookupSets, error)
}
