package extractions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/fields"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/query"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	capability *SchemaCapability
}

// New creates an extraction repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "extractions"),
		capability: &SchemaCapability{},
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Extraction, error) {
	e, err := r.findByDocument(ctx, r.db, documentID)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) findByDocument(
	ctx context.Context,
	q repository.Querier,
	documentID uuid.UUID,
) (Extraction, error) {
	if r.capability.Supported() {
		sqlText, args := query.NewBuilder(projection).BuildSingle("DocumentID", documentID)
		e, err := repository.QueryOne(ctx, q, sqlText, args, scanExtraction)
		if err == nil {
			r.capability.MarkSupported()
			return e, nil
		}
		if !isUndefinedWorkflowColumn(err) {
			return e, err
		}
		r.capability.MarkUnsupported(r.logger, err)
	}

	sqlText, args := query.NewBuilder(projectionLegacy).BuildSingle("DocumentID", documentID)
	return repository.QueryOne(ctx, q, sqlText, args, scanExtractionLegacy)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Extraction, error) {
	e, err := r.upsert(ctx, cmd, r.capability.Supported())
	if err != nil && isUndefinedWorkflowColumn(err) && r.capability.Supported() {
		r.capability.MarkUnsupported(r.logger, err)
		e, err = r.upsert(ctx, cmd, false)
	}

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("extraction stored",
		"id", e.ID,
		"document_id", e.DocumentID,
		"workflow_type", e.WorkflowType,
		"provider", e.AIProvider)
	return e, nil
}

func (r *repo) upsert(ctx context.Context, cmd CreateCommand, workflow bool) (*Extraction, error) {
	q := buildUpsert(workflow)
	args := upsertArgs(uuid.New(), cmd, workflow)

	scan := scanExtractionLegacy
	if workflow {
		scan = scanExtraction
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Extraction, error) {
		return repository.QueryOne(ctx, tx, q, args, scan)
	})
	if err != nil {
		return nil, err
	}

	if workflow {
		r.capability.MarkSupported()
	}
	return &e, nil
}

func (r *repo) UpdateFields(
	ctx context.Context,
	documentID uuid.UUID,
	cmd UpdateFieldsCommand,
) (*Extraction, error) {
	if cmd.Empty() {
		return r.FindByDocument(ctx, documentID)
	}

	// Settles the schema capability and surfaces missing extractions
	// before taking the transaction.
	if _, err := r.FindByDocument(ctx, documentID); err != nil {
		return nil, err
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Extraction, error) {
		return r.applyEdits(ctx, tx, documentID, cmd)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("extraction fields updated", "document_id", documentID)
	return &e, nil
}

func (r *repo) applyEdits(
	ctx context.Context,
	tx *sql.Tx,
	documentID uuid.UUID,
	cmd UpdateFieldsCommand,
) (Extraction, error) {
	sets, args, err := buildFieldEdits(cmd)
	if err != nil {
		return Extraction{}, err
	}

	args = append(args, documentID)
	q := fmt.Sprintf(
		"UPDATE extractions SET %s, updated_at = now() WHERE document_id = $%d",
		strings.Join(sets, ", "),
		len(args),
	)

	if err := repository.ExecExpectOne(ctx, tx, q, args...); err != nil {
		return Extraction{}, err
	}

	e, err := r.findByDocument(ctx, tx, documentID)
	if err != nil {
		return Extraction{}, err
	}

	if cmd.Category == nil && cmd.StoreIn == nil {
		return e, nil
	}

	return r.reviseWorkflow(ctx, tx, documentID, e)
}

// reviseWorkflow re-derives the filing workflow after a reviewer changes
// category or store-location, keeping the workflow columns a pure function
// of the two. Category stays authoritative: an investigation category
// forces the Investigations store-location even over an explicit edit.
func (r *repo) reviseWorkflow(
	ctx context.Context,
	tx *sql.Tx,
	documentID uuid.UUID,
	e Extraction,
) (Extraction, error) {
	wf := fields.DeriveWorkflow(e.Category, e.StoreIn)

	if !r.capability.Supported() {
		if wf.StoreIn == e.StoreIn {
			return e, nil
		}

		if err := repository.ExecExpectOne(ctx, tx, `
			UPDATE extractions
			SET store_in = $2, updated_at = now()
			WHERE document_id = $1`,
			documentID, wf.StoreIn,
		); err != nil {
			return Extraction{}, err
		}
		return r.findByDocument(ctx, tx, documentID)
	}

	if err := repository.ExecExpectOne(ctx, tx, `
		UPDATE extractions
		SET store_in = $2,
		    workflow_type = $3,
		    requires_doctor_review = $4,
		    workflow_reason = $5,
		    updated_at = now()
		WHERE document_id = $1`,
		documentID, wf.StoreIn, wf.Type, wf.RequiresDoctorReview, wf.Reason,
	); err != nil {
		return Extraction{}, err
	}

	return r.findByDocument(ctx, tx, documentID)
}

// buildFieldEdits validates and normalizes reviewer edits into SET clauses.
// Each edited field also pins its confidence to 1 since a human verified it.
func buildFieldEdits(cmd UpdateFieldsCommand) ([]string, []any, error) {
	edits := []struct {
		column string
		value  *string
	}{
		{"patient_name", cmd.PatientName},
		{"report_date", cmd.ReportDate},
		{"subject", cmd.Subject},
		{"source_contact", cmd.SourceContact},
		{"store_in", cmd.StoreIn},
		{"assigned_doctor", cmd.AssignedDoctor},
		{"category", cmd.Category},
		{"date_of_birth", cmd.DateOfBirth},
		{"patient_id", cmd.PatientID},
		{"specialist", cmd.Specialist},
		{"facility", cmd.Facility},
		{"urgency", cmd.Urgency},
		{"summary", cmd.Summary},
	}

	var (
		sets []string
		args []any
	)

	for _, edit := range edits {
		if edit.value == nil {
			continue
		}

		value := strings.TrimSpace(*edit.value)

		switch edit.column {
		case "report_date", "date_of_birth":
			if value != "" {
				sanitized := fields.SanitizeDate(value)
				if sanitized == "" {
					return nil, nil, fmt.Errorf("%w: %s %q is not a valid date",
						ErrInvalidField, edit.column, value)
				}
				value = sanitized
			}
		case "category":
			if value != "" {
				canonical, ok := fields.CanonicalCategory(value)
				if !ok {
					return nil, nil, fmt.Errorf("%w: category %q is not recognised",
						ErrInvalidField, value)
				}
				value = canonical
			}
		case "store_in":
			if value != fields.StoreInvestigations && value != fields.StoreCorrespondence {
				return nil, nil, fmt.Errorf("%w: store_in %q must be %s or %s",
					ErrInvalidField, value,
					fields.StoreInvestigations, fields.StoreCorrespondence)
			}
		case "urgency":
			if value != "" {
				canonical, ok := fields.CanonicalUrgency(value)
				if !ok {
					return nil, nil, fmt.Errorf("%w: urgency %q must be one of %s, %s, or %s",
						ErrInvalidField, value,
						fields.UrgencyRoutine, fields.UrgencyUrgent, fields.UrgencyEmergency)
				}
				value = canonical
			}
		}

		args = append(args, value)
		sets = append(sets,
			fmt.Sprintf("%s = $%d", edit.column, len(args)),
			fmt.Sprintf("%s_confidence = 1", edit.column),
		)
	}

	return sets, args, nil
}

func (r *repo) Approve(
	ctx context.Context,
	documentID uuid.UUID,
	cmd ApproveCommand,
) (*Extraction, error) {
	// Settles the schema capability and surfaces missing extractions
	// before taking the transaction.
	if _, err := r.FindByDocument(ctx, documentID); err != nil {
		return nil, err
	}

	lookups, err := loadLookups(ctx, r.db, r.logger)
	if err != nil {
		return nil, err
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Extraction, error) {
		if cmd.Edits != nil && !cmd.Edits.Empty() {
			if _, err := r.applyEdits(ctx, tx, documentID, *cmd.Edits); err != nil {
				return Extraction{}, err
			}
		}

		e, err := r.findByDocument(ctx, tx, documentID)
		if err != nil {
			return Extraction{}, err
		}

		if err := validateForApproval(&e, lookups); err != nil {
			return Extraction{}, err
		}

		err = repository.ExecExpectOne(ctx, tx, `
			UPDATE documents
			SET status = 'completed', processed_at = now(), updated_at = now()
			WHERE id = $1 AND status = 'review'`,
			documentID,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return Extraction{}, ErrNotReviewable
		}
		if err != nil {
			return Extraction{}, err
		}

		return e, nil
	})
	if err != nil {
		if errors.Is(err, ErrApprovalBlocked) ||
			errors.Is(err, ErrNotReviewable) ||
			errors.Is(err, ErrInvalidField) {
			return nil, err
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document approved", "document_id", documentID)
	return &e, nil
}

func (r *repo) Reject(ctx context.Context, documentID uuid.UUID, cmd RejectCommand) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		err := repository.ExecExpectOne(ctx, tx, `
			UPDATE documents
			SET status = 'failed', updated_at = now()
			WHERE id = $1 AND status = 'review'`,
			documentID,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return struct{}{}, ErrNotReviewable
		}
		if err != nil {
			return struct{}{}, err
		}

		if err := repository.ExecExpectOne(ctx, tx, `
			UPDATE extractions
			SET failure_reason = $2, updated_at = now()
			WHERE document_id = $1`,
			documentID, nullableString(cmd.Reason),
		); err != nil {
			return struct{}{}, err
		}

		return struct{}{}, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotReviewable) {
			return err
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document rejected", "document_id", documentID, "reason", cmd.Reason)
	return nil
}

func (r *repo) Lookups(ctx context.Context) (*LookupSets, error) {
	return loadLookups(ctx, r.db, r.logger)
}
