package fields

import "fmt"

// Store locations for approved documents.
const (
	StoreInvestigations = "Investigations"
	StoreCorrespondence = "Correspondence"
)

// Workflow types routed from (category, store-location).
const (
	WorkflowDoctorReview   = "doctor-review-investigations"
	WorkflowCorrespondence = "standard-correspondence-review"
)

// investigationCategories always route to Investigations with mandatory
// doctor review, regardless of any requested store-location.
var investigationCategories = map[string]bool{
	"Medical imaging report": true,
	"Pathology results":      true,
	"ECG":                    true,
}

// Workflow is the derived filing decision for an extraction. It is always
// a pure function of category and store-location and is never set
// independently of them.
type Workflow struct {
	StoreIn              string `json:"store_in"`
	Type                 string `json:"workflow_type"`
	RequiresDoctorReview bool   `json:"requires_doctor_review"`
	Reason               string `json:"workflow_reason"`
}

// DeriveWorkflow maps a raw category and requested store-location to a
// filing workflow. It is total: unknown categories and store-locations
// degrade to the correspondence defaults rather than erroring.
//
// Category is authoritative: an investigation category forces the
// Investigations store-location even when the caller explicitly requested
// Correspondence. Outside the investigation subset the requested
// store-location is honored, defaulting to Correspondence.
func DeriveWorkflow(category, requestedStoreIn string) Workflow {
	canonical, _ := CanonicalCategory(category)

	if investigationCategories[canonical] {
		return Workflow{
			StoreIn:              StoreInvestigations,
			Type:                 WorkflowDoctorReview,
			RequiresDoctorReview: true,
			Reason:               fmt.Sprintf("category %q requires doctor review before filing", canonical),
		}
	}

	storeIn := StoreCorrespondence
	if requestedStoreIn == StoreInvestigations {
		storeIn = StoreInvestigations
	}

	if storeIn == StoreInvestigations {
		return Workflow{
			StoreIn:              StoreInvestigations,
			Type:                 WorkflowDoctorReview,
			RequiresDoctorReview: true,
			Reason:               "filed to Investigations; doctor review required",
		}
	}

	return Workflow{
		StoreIn:              StoreCorrespondence,
		Type:                 WorkflowCorrespondence,
		RequiresDoctorReview: false,
		Reason:               "standard correspondence review",
	}
}
