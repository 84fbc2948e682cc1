package fields_test

import (
	"strings"
	"testing"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/fields"
)

func TestSanitizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"iso passthrough", "2024-03-15", "2024-03-15"},
		{"iso invalid calendar day", "2022-02-30", ""},
		{"day first slashes", "15/03/2024", "2024-03-15"},
		{"day first dashes", "5-3-2024", "2024-03-05"},
		{"day first dots", "15.03.2024", "2024-03-15"},
		{"ambiguous read day first", "03/04/2024", "2024-04-03"},
		{"two digit year pivots forward", "15/03/24", "2024-03-15"},
		{"two digit year pivots back", "15/03/85", "1985-03-15"},
		{"pivot boundary", "01/01/30", "2030-01-01"},
		{"past pivot boundary", "01/01/31", "1931-01-01"},
		{"compact", "20240315", "2024-03-15"},
		{"compact invalid month", "20241315", ""},
		{"compact six digit day first", "150324", "2024-03-15"},
		{"compact six digit pivots back", "150385", "1985-03-15"},
		{"compact six digit invalid month", "151324", ""},
		{"day first invalid day", "32/01/2024", ""},
		{"whitespace trimmed", "  2024-03-15  ", "2024-03-15"},
		{"empty", "", ""},
		{"free text", "mid March 2024", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fields.SanitizeDate(tt.input); got != tt.expected {
				t.Errorf("SanitizeDate(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCanonicalUrgency(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"routine", "routine", "routine", true},
		{"case insensitive", "Urgent", "urgent", true},
		{"trims whitespace", "  emergency  ", "emergency", true},
		{"outside enum", "whenever", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fields.CanonicalUrgency(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("CanonicalUrgency(%q) = %q, %v, want %q, %v",
					tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestLooksLikePersonName(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		allowTitle bool
		expected   bool
	}{
		{"simple name", "Jane Citizen", false, true},
		{"hyphenated surname", "Mary Smith-Jones", false, true},
		{"apostrophe", "Sean O'Brien", false, true},
		{"single token", "Cher", false, true},
		{"four tokens", "Juan Carlos de Silva", false, true},
		{"five tokens", "One Two Three Four Five", false, false},
		{"digits rejected", "Jane Citizen 2", false, false},
		{"question mark rejected", "Jane?", false, false},
		{"deny list boilerplate", "Please select", false, false},
		{"deny list unknown", "Unknown", false, false},
		{"title stripped when allowed", "Dr. Jane Citizen", true, true},
		{"title rejected when not allowed", "Dr. Jane Citizen", false, false},
		{"bare title", "Dr.", true, false},
		{"empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fields.LooksLikePersonName(tt.input, tt.allowTitle)
			if got != tt.expected {
				t.Errorf("LooksLikePersonName(%q, %v) = %v, want %v", tt.input, tt.allowTitle, got, tt.expected)
			}
		})
	}
}

func TestLooksLikeOrganisationOrPerson(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"person name", "Jane Citizen", true},
		{"titled doctor", "Dr Jane Citizen", true},
		{"clinic", "Northside Family Clinic", true},
		{"radiology chain", "I-MED Radiology Newcastle", true},
		{"leading parenthesis rejected", "(Newcastle) Radiology", false},
		{"long phrase without hint", "Main Street Post Office Branch Five", false},
		{"question mark", "Which clinic?", false},
		{"nine token organisation", "The Very Long Name Of A Suburban Health Clinic", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fields.LooksLikeOrganisationOrPerson(tt.input)
			if got != tt.expected {
				t.Errorf("LooksLikeOrganisationOrPerson(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHasOrganisationHint(t *testing.T) {
	if !fields.HasOrganisationHint("Lakeview HOSPITAL annex") {
		t.Error("expected hint match to be case-insensitive")
	}
	if fields.HasOrganisationHint("Jane Citizen") {
		t.Error("expected no hint in a bare person name")
	}
}

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"exact", "Pathology results", "Pathology results", true},
		{"case insensitive", "pathology RESULTS", "Pathology results", true},
		{"trimmed", "  Letter  ", "Letter", true},
		{"uncategorized placeholder", "uncategorized", fields.CategoryUncategorized, true},
		{"unknown", "Pathology", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fields.CanonicalCategory(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("CanonicalCategory(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestCategoriesContainRegistration(t *testing.T) {
	found := false
	for _, c := range fields.Categories {
		if c == fields.CategoryRegistration {
			found = true
		}
	}
	if !found {
		t.Errorf("Categories missing %q", fields.CategoryRegistration)
	}
}

func TestDeriveWorkflow(t *testing.T) {
	tests := []struct {
		name             string
		category         string
		requestedStoreIn string
		storeIn          string
		workflowType     string
		doctorReview     bool
	}{
		{
			name:         "imaging forces investigations",
			category:     "Medical imaging report",
			storeIn:      fields.StoreInvestigations,
			workflowType: fields.WorkflowDoctorReview,
			doctorReview: true,
		},
		{
			name:             "imaging overrides requested correspondence",
			category:         "Medical imaging report",
			requestedStoreIn: fields.StoreCorrespondence,
			storeIn:          fields.StoreInvestigations,
			workflowType:     fields.WorkflowDoctorReview,
			doctorReview:     true,
		},
		{
			name:         "pathology case insensitive",
			category:     "pathology results",
			storeIn:      fields.StoreInvestigations,
			workflowType: fields.WorkflowDoctorReview,
			doctorReview: true,
		},
		{
			name:         "ecg",
			category:     "ECG",
			storeIn:      fields.StoreInvestigations,
			workflowType: fields.WorkflowDoctorReview,
			doctorReview: true,
		},
		{
			name:         "letter defaults to correspondence",
			category:     "Letter",
			storeIn:      fields.StoreCorrespondence,
			workflowType: fields.WorkflowCorrespondence,
			doctorReview: false,
		},
		{
			name:             "letter honors requested investigations",
			category:         "Letter",
			requestedStoreIn: fields.StoreInvestigations,
			storeIn:          fields.StoreInvestigations,
			workflowType:     fields.WorkflowDoctorReview,
			doctorReview:     true,
		},
		{
			name:             "garbage store in degrades to correspondence",
			category:         "Letter",
			requestedStoreIn: "Filing Cabinet",
			storeIn:          fields.StoreCorrespondence,
			workflowType:     fields.WorkflowCorrespondence,
			doctorReview:     false,
		},
		{
			name:         "unknown category degrades to correspondence",
			category:     "Mystery",
			storeIn:      fields.StoreCorrespondence,
			workflowType: fields.WorkflowCorrespondence,
			doctorReview: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fields.DeriveWorkflow(tt.category, tt.requestedStoreIn)
			if got.StoreIn != tt.storeIn {
				t.Errorf("StoreIn = %q, want %q", got.StoreIn, tt.storeIn)
			}
			if got.Type != tt.workflowType {
				t.Errorf("Type = %q, want %q", got.Type, tt.workflowType)
			}
			if got.RequiresDoctorReview != tt.doctorReview {
				t.Errorf("RequiresDoctorReview = %v, want %v", got.RequiresDoctorReview, tt.doctorReview)
			}
			if got.Reason == "" {
				t.Error("Reason should never be empty")
			}
		})
	}
}

func TestDeriveWorkflowReasonNamesCategory(t *testing.T) {
	wf := fields.DeriveWorkflow("ECG", "")
	if !strings.Contains(wf.Reason, "ECG") {
		t.Errorf("Reason = %q, want canonical category mentioned", wf.Reason)
	}
}
