package extractions

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// fieldColumns lists the field set columns in scan order.
var fieldColumns = []string{
	"patient_name", "patient_name_confidence",
	"report_date", "report_date_confidence",
	"subject", "subject_confidence",
	"source_contact", "source_contact_confidence",
	"store_in", "store_in_confidence",
	"assigned_doctor", "assigned_doctor_confidence",
	"category", "category_confidence",
	"date_of_birth", "date_of_birth_confidence",
	"patient_id", "patient_id_confidence",
	"specialist", "specialist_confidence",
	"facility", "facility_confidence",
	"urgency", "urgency_confidence",
	"summary", "summary_confidence",
}

var provenanceColumns = []string{"ai_provider", "ai_model", "raw_response", "failure_reason"}

func upsertColumns(workflow bool) []string {
	columns := []string{"id", "document_id"}
	columns = append(columns, fieldColumns...)
	columns = append(columns, provenanceColumns...)
	if workflow {
		columns = append(columns, workflowColumns...)
	}
	return columns
}

func returningColumns(workflow bool) []string {
	columns := []string{"id", "document_id"}
	columns = append(columns, fieldColumns...)
	columns = append(columns, provenanceColumns...)
	columns = append(columns, "extracted_at", "updated_at")
	if workflow {
		columns = append(columns, workflowColumns...)
	}
	return columns
}

// buildUpsert assembles the extraction upsert statement. Reprocessing a
// document replaces its extraction via the document_id conflict target.
// The workflow flag controls whether the staged workflow columns are
// referenced at all.
func buildUpsert(workflow bool) string {
	columns := upsertColumns(workflow)

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	// Everything but the identity columns is overwritten on conflict.
	updates := make([]string, 0, len(columns))
	for _, column := range columns[2:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
	}
	updates = append(updates, "updated_at = now()")

	return fmt.Sprintf(`
		INSERT INTO extractions (%s)
		VALUES (%s)
		ON CONFLICT (document_id) DO UPDATE SET %s
		RETURNING %s`,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
		strings.Join(returningColumns(workflow), ", "),
	)
}

func upsertArgs(id uuid.UUID, cmd CreateCommand, workflow bool) []any {
	f := cmd.Fields

	args := []any{
		id,
		cmd.DocumentID,
		f.PatientName, f.PatientNameConfidence,
		f.ReportDate, f.ReportDateConfidence,
		f.Subject, f.SubjectConfidence,
		f.SourceContact, f.SourceContactConfidence,
		f.StoreIn, f.StoreInConfidence,
		f.AssignedDoctor, f.AssignedDoctorConfidence,
		f.Category, f.CategoryConfidence,
		f.DateOfBirth, f.DateOfBirthConfidence,
		f.PatientID, f.PatientIDConfidence,
		f.Specialist, f.SpecialistConfidence,
		f.Facility, f.FacilityConfidence,
		f.Urgency, f.UrgencyConfidence,
		f.Summary, f.SummaryConfidence,
		cmd.Provider,
		cmd.Model,
		nullableBytes(cmd.RawResponse),
		nullableString(cmd.FailureReason),
	}

	if workflow {
		args = append(args,
			cmd.Workflow.Type,
			cmd.Workflow.RequiresDoctorReview,
			cmd.Workflow.Reason,
		)
	}

	return args
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return []byte(b)
}
