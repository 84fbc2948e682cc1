// Package extractions implements the extraction domain: persistence of
// extracted field sets alongside their filing workflow, tolerance for the
// staged workflow-column rollout, reviewer field edits, and the approval
// gate that moves a document from review to completed.
package extractions

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/extract"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/fields"
)

// Extraction is the stored extraction for a document: the field set, the
// derived filing workflow, and provenance about the producing backend.
// Workflow values are empty when the deployed schema predates the workflow
// columns.
type Extraction struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`

	extract.FieldSet

	WorkflowType         string `json:"workflow_type,omitempty"`
	RequiresDoctorReview bool   `json:"requires_doctor_review"`
	WorkflowReason       string `json:"workflow_reason,omitempty"`

	AIProvider    string          `json:"ai_provider,omitempty"`
	AIModel       string          `json:"ai_model,omitempty"`
	RawResponse   json.RawMessage `json:"raw_response,omitempty"`
	FailureReason *string         `json:"failure_reason,omitempty"`

	ExtractedAt time.Time `json:"extracted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries a completed extraction for persistence. Create
// upserts on document_id so a reprocessed document replaces its previous
// extraction.
type CreateCommand struct {
	DocumentID    uuid.UUID
	Fields        extract.FieldSet
	Workflow      fields.Workflow
	Provider      string
	Model         string
	RawResponse   json.RawMessage
	FailureReason string
}

// UpdateFieldsCommand carries reviewer edits. Nil pointers leave a field
// untouched; edited fields have their confidence set to 1.0 since a human
// verified the value.
type UpdateFieldsCommand struct {
	PatientName    *string `json:"patient_name,omitempty"`
	ReportDate     *string `json:"report_date,omitempty"`
	Subject        *string `json:"subject,omitempty"`
	SourceContact  *string `json:"source_contact,omitempty"`
	StoreIn        *string `json:"store_in,omitempty"`
	AssignedDoctor *string `json:"assigned_doctor,omitempty"`
	Category       *string `json:"category,omitempty"`
	DateOfBirth    *string `json:"date_of_birth,omitempty"`
	PatientID      *string `json:"patient_id,omitempty"`
	Specialist     *string `json:"specialist,omitempty"`
	Facility       *string `json:"facility,omitempty"`
	Urgency        *string `json:"urgency,omitempty"`
	Summary        *string `json:"summary,omitempty"`
}

// Empty reports whether the command carries no edits.
func (c UpdateFieldsCommand) Empty() bool {
	return c == (UpdateFieldsCommand{})
}

// ApproveCommand optionally carries final reviewer edits applied in the
// same transaction as the approval.
type ApproveCommand struct {
	Edits *UpdateFieldsCommand `json:"edits,omitempty"`
}

// RejectCommand records why a reviewer rejected a document.
type RejectCommand struct {
	Reason string `json:"reason"`
}
