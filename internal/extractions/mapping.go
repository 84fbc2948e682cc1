package extractions

import (
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/query"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/pkg/repository"
)

func baseProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "extractions", "e").
		Project("id", "ID").
		Project("document_id", "DocumentID").
		Project("patient_name", "PatientName").
		Project("patient_name_confidence", "PatientNameConfidence").
		Project("report_date", "ReportDate").
		Project("report_date_confidence", "ReportDateConfidence").
		Project("subject", "Subject").
		Project("subject_confidence", "SubjectConfidence").
		Project("source_contact", "SourceContact").
		Project("source_contact_confidence", "SourceContactConfidence").
		Project("store_in", "StoreIn").
		Project("store_in_confidence", "StoreInConfidence").
		Project("assigned_doctor", "AssignedDoctor").
		Project("assigned_doctor_confidence", "AssignedDoctorConfidence").
		Project("category", "Category").
		Project("category_confidence", "CategoryConfidence").
		Project("date_of_birth", "DateOfBirth").
		Project("date_of_birth_confidence", "DateOfBirthConfidence").
		Project("patient_id", "PatientID").
		Project("patient_id_confidence", "PatientIDConfidence").
		Project("specialist", "Specialist").
		Project("specialist_confidence", "SpecialistConfidence").
		Project("facility", "Facility").
		Project("facility_confidence", "FacilityConfidence").
		Project("urgency", "Urgency").
		Project("urgency_confidence", "UrgencyConfidence").
		Project("summary", "Summary").
		Project("summary_confidence", "SummaryConfidence").
		Project("ai_provider", "AIProvider").
		Project("ai_model", "AIModel").
		Project("raw_response", "RawResponse").
		Project("failure_reason", "FailureReason").
		Project("extracted_at", "ExtractedAt").
		Project("updated_at", "UpdatedAt")
}

// projection includes the workflow columns; projectionLegacy is used once
// the schema capability is pinned to unsupported.
var (
	projection = baseProjection().
			Project("workflow_type", "WorkflowType").
			Project("requires_doctor_review", "RequiresDoctorReview").
			Project("workflow_reason", "WorkflowReason")

	projectionLegacy = baseProjection()
)

func scanCommon(s repository.Scanner, e *Extraction, workflow bool) error {
	// database/sql cannot assign NULL to json.RawMessage directly.
	var rawResponse []byte

	dest := []any{
		&e.ID,
		&e.DocumentID,
		&e.PatientName,
		&e.PatientNameConfidence,
		&e.ReportDate,
		&e.ReportDateConfidence,
		&e.Subject,
		&e.SubjectConfidence,
		&e.SourceContact,
		&e.SourceContactConfidence,
		&e.StoreIn,
		&e.StoreInConfidence,
		&e.AssignedDoctor,
		&e.AssignedDoctorConfidence,
		&e.Category,
		&e.CategoryConfidence,
		&e.DateOfBirth,
		&e.DateOfBirthConfidence,
		&e.PatientID,
		&e.PatientIDConfidence,
		&e.Specialist,
		&e.SpecialistConfidence,
		&e.Facility,
		&e.FacilityConfidence,
		&e.Urgency,
		&e.UrgencyConfidence,
		&e.Summary,
		&e.SummaryConfidence,
		&e.AIProvider,
		&e.AIModel,
		&rawResponse,
		&e.FailureReason,
		&e.ExtractedAt,
		&e.UpdatedAt,
	}

	if workflow {
		dest = append(dest,
			&e.WorkflowType,
			&e.RequiresDoctorReview,
			&e.WorkflowReason,
		)
	}

	if err := s.Scan(dest...); err != nil {
		return err
	}

	e.RawResponse = rawResponse
	return nil
}

func scanExtraction(s repository.Scanner) (Extraction, error) {
	var e Extraction
	err := scanCommon(s, &e, true)
	return e, err
}

func scanExtractionLegacy(s repository.Scanner) (Extraction, error) {
	var e Extraction
	err := scanCommon(s, &e, false)
	return e, err
}
