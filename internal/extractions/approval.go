package extractions

import (
	"errors"
	"fmt"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/fields"
)

// validateForApproval checks the approval gate against a field set
// snapshot: every required field present and valid, and the three name
// fields matched against the known-name sets. All violations are collected
// so the reviewer sees the full list in one round trip.
func validateForApproval(e *Extraction, lookups *LookupSets) error {
	var violations []error

	blocked := func(format string, args ...any) {
		violations = append(violations,
			fmt.Errorf("%w: %s", ErrApprovalBlocked, fmt.Sprintf(format, args...)))
	}

	required := map[string]string{
		"patient_name":    e.PatientName,
		"report_date":     e.ReportDate,
		"subject":         e.Subject,
		"source_contact":  e.SourceContact,
		"store_in":        e.StoreIn,
		"assigned_doctor": e.AssignedDoctor,
		"category":        e.Category,
	}
	for _, name := range []string{
		"patient_name", "report_date", "subject", "source_contact",
		"store_in", "assigned_doctor", "category",
	} {
		if required[name] == "" {
			blocked("%s is required", name)
		}
	}

	if e.ReportDate != "" && fields.SanitizeDate(e.ReportDate) != e.ReportDate {
		blocked("report_date %q is not a valid YYYY-MM-DD date", e.ReportDate)
	}

	if e.Category != "" {
		if canonical, ok := fields.CanonicalCategory(e.Category); !ok || canonical != e.Category {
			blocked("category %q is not a recognised category", e.Category)
		}
	}

	if e.StoreIn != "" &&
		e.StoreIn != fields.StoreInvestigations &&
		e.StoreIn != fields.StoreCorrespondence {
		blocked("store_in %q must be %s or %s",
			e.StoreIn, fields.StoreInvestigations, fields.StoreCorrespondence)
	}

	if e.PatientName != "" && !lookups.Patients.Contains(e.PatientName) {
		blocked("patient_name %q does not match a known patient", e.PatientName)
	}

	if e.AssignedDoctor != "" && !lookups.Doctors.Contains(e.AssignedDoctor) {
		blocked("assigned_doctor %q does not match a known doctor", e.AssignedDoctor)
	}

	if e.SourceContact != "" && !lookups.Contacts.Contains(e.SourceContact) {
		blocked("source_contact %q does not match a known contact", e.SourceContact)
	}

	return errors.Join(violations...)
}
