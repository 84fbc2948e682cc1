// Package extract implements the field extraction orchestrator: prompt
// construction with size budgeting, backend invocation with failover,
// strict response validation, the enrichment pass, and the bounded
// low-confidence retry against the full transcript.
package extract

import "github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/fields"

// FieldSet is the structured extraction for a document: seven required
// filing fields and six optional fields, each paired with a confidence in
// [0,1]. Empty strings represent absent values; confidences default to 0.
type FieldSet struct {
	PatientName              string  `json:"patient_name"`
	PatientNameConfidence    float64 `json:"patient_name_confidence"`
	ReportDate               string  `json:"report_date"`
	ReportDateConfidence     float64 `json:"report_date_confidence"`
	Subject                  string  `json:"subject"`
	SubjectConfidence        float64 `json:"subject_confidence"`
	SourceContact            string  `json:"source_contact"`
	SourceContactConfidence  float64 `json:"source_contact_confidence"`
	StoreIn                  string  `json:"store_in"`
	StoreInConfidence        float64 `json:"store_in_confidence"`
	AssignedDoctor           string  `json:"assigned_doctor"`
	AssignedDoctorConfidence float64 `json:"assigned_doctor_confidence"`
	Category                 string  `json:"category"`
	CategoryConfidence       float64 `json:"category_confidence"`

	DateOfBirth           string  `json:"date_of_birth,omitempty"`
	DateOfBirthConfidence float64 `json:"date_of_birth_confidence,omitempty"`
	PatientID             string  `json:"patient_id,omitempty"`
	PatientIDConfidence   float64 `json:"patient_id_confidence,omitempty"`
	Specialist            string  `json:"specialist,omitempty"`
	SpecialistConfidence  float64 `json:"specialist_confidence,omitempty"`
	Facility              string  `json:"facility,omitempty"`
	FacilityConfidence    float64 `json:"facility_confidence,omitempty"`
	Urgency               string  `json:"urgency,omitempty"`
	UrgencyConfidence     float64 `json:"urgency_confidence,omitempty"`
	Summary               string  `json:"summary,omitempty"`
	SummaryConfidence     float64 `json:"summary_confidence,omitempty"`
}

// requiredField pairs a required field's value and confidence accessors
// with its low-confidence floor for the full-transcript retry decision.
type requiredField struct {
	name  string
	value func(*FieldSet) string
	conf  func(*FieldSet) float64
	floor float64
}

var requiredFields = []requiredField{
	{"patient_name", func(f *FieldSet) string { return f.PatientName }, func(f *FieldSet) float64 { return f.PatientNameConfidence }, 0.45},
	{"report_date", func(f *FieldSet) string { return f.ReportDate }, func(f *FieldSet) float64 { return f.ReportDateConfidence }, 0.40},
	{"subject", func(f *FieldSet) string { return f.Subject }, func(f *FieldSet) float64 { return f.SubjectConfidence }, 0.40},
	{"source_contact", func(f *FieldSet) string { return f.SourceContact }, func(f *FieldSet) float64 { return f.SourceContactConfidence }, 0.45},
	{"store_in", func(f *FieldSet) string { return f.StoreIn }, func(f *FieldSet) float64 { return f.StoreInConfidence }, 0.40},
	{"assigned_doctor", func(f *FieldSet) string { return f.AssignedDoctor }, func(f *FieldSet) float64 { return f.AssignedDoctorConfidence }, 0.45},
	{"category", func(f *FieldSet) string { return f.Category }, func(f *FieldSet) float64 { return f.CategoryConfidence }, 0.40},
}

// PlaceholderFieldSet returns the degraded field set substituted when
// extraction fails entirely. All values carry zero confidence so a reviewer
// fills them in manually.
func PlaceholderFieldSet() FieldSet {
	return FieldSet{
		Subject:  "Manual Review Required",
		Category: fields.CategoryUncategorized,
		StoreIn:  fields.StoreInvestigations,
	}
}
