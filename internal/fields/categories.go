package fields

import "strings"

// Categories is the closed list of filing categories accepted by the
// practice management system. Values are matched case-insensitively but
// always stored in this exact casing.
var Categories = []string{
	"Medical imaging report",
	"Pathology results",
	"Discharge summary",
	"Referral letter",
	"Letter",
	"ECG",
	"Certificate",
	"Allied health letter",
	"Immunisation",
	"Clinical notes",
	"Consent form",
	"Admission summary",
	"Advance care planning",
	"Clinical photograph",
	"DAS21",
	"Email",
	"Form",
	"Indigenous PIP",
	"MyHealth registration",
	"New PT registration form",
	"Patient consent",
	"Record request",
	"Workcover",
	"Workcover consent",
}

// CategoryUncategorized is the placeholder category assigned when
// extraction fails entirely and a human must file the document manually.
// It is not part of the model-facing category list.
const CategoryUncategorized = "Uncategorized"

// CategoryRegistration is the category forced onto detected patient
// registration forms.
const CategoryRegistration = "New PT registration form"

var categoryIndex = buildCategoryIndex()

func buildCategoryIndex() map[string]string {
	idx := make(map[string]string, len(Categories)+1)
	for _, c := range Categories {
		idx[strings.ToLower(c)] = c
	}
	idx[strings.ToLower(CategoryUncategorized)] = CategoryUncategorized
	return idx
}

// CanonicalCategory resolves raw to its canonical category value.
// Matching is case-insensitive and exact; no fuzzy matching is attempted.
// Returns "" and false for anything outside the closed list.
func CanonicalCategory(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	canonical, ok := categoryIndex[strings.ToLower(trimmed)]
	return canonical, ok
}
