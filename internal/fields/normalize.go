// Package fields provides pure validation and normalization helpers for
// extracted filing metadata: calendar dates, the closed category list,
// person and organisation name heuristics, and filing workflow derivation.
// It has no dependencies on storage or transport and is safe to call from
// any layer.
package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDateLayout = "2006-01-02"

var (
	isoDatePattern     = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dayFirstPattern    = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})$`)
	compactPattern     = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	compact6Pattern    = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})$`)
	nameTokenPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z'\-]*$`)
	orgTokenPattern    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9'\-.,&()]*$`)
	doctorTitlePattern = regexp.MustCompile(`(?i)^(dr\.?|doctor)\s+`)
)

// nameDenyList rejects form boilerplate the model occasionally echoes into
// name fields ("Do you consent to...", "Please select...").
var nameDenyList = []string{
	"consent",
	"please",
	"select",
	"signature",
	"declaration",
	"information",
	"details",
	"unknown",
	"patient name",
	"not applicable",
}

// organisationHints are substrings that mark a value as a plausible
// clinic or facility name rather than free text.
var organisationHints = []string{
	"clinic",
	"hospital",
	"radiology",
	"pathology",
	"practice",
	"centre",
	"center",
	"imaging",
	"surgery",
	"health",
	"medical",
	"laboratory",
	"x-ray",
}

// Urgency levels accepted for the optional urgency field.
const (
	UrgencyRoutine   = "routine"
	UrgencyUrgent    = "urgent"
	UrgencyEmergency = "emergency"
)

var urgencyLevels = []string{UrgencyRoutine, UrgencyUrgent, UrgencyEmergency}

// CanonicalUrgency normalizes an urgency value to its canonical lowercase
// form. Returns false for values outside the closed list.
func CanonicalUrgency(raw string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, level := range urgencyLevels {
		if lower == level {
			return level, true
		}
	}
	return "", false
}

// SanitizeDate validates and normalizes a date string to ISO YYYY-MM-DD.
// ISO input is round-tripped through time.Parse so invalid calendar dates
// (2022-02-30) are rejected even though they match the shape. Day-first
// DD/MM/YYYY, DD-MM-YYYY, DD.MM.YYYY and compact YYYYMMDD / day-first
// DDMMYY forms are normalized to ISO. Two-digit years pivot at 30: values
// up to 30 map to 20xx, the rest to 19xx.
//
// Day-first interpretation is an AU-centric assumption; ambiguous values
// such as 03/04/2024 are read as 3 April.
//
// Returns "" for anything that does not resolve to a real calendar date.
func SanitizeDate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if isoDatePattern.MatchString(trimmed) {
		parsed, err := time.Parse(isoDateLayout, trimmed)
		if err != nil || parsed.Format(isoDateLayout) != trimmed {
			return ""
		}
		return trimmed
	}

	if m := dayFirstPattern.FindStringSubmatch(trimmed); m != nil {
		return buildISODate(m[3], m[2], m[1])
	}

	if m := compactPattern.FindStringSubmatch(trimmed); m != nil {
		return buildISODate(m[1], m[2], m[3])
	}

	if m := compact6Pattern.FindStringSubmatch(trimmed); m != nil {
		return buildISODate(m[3], m[2], m[1])
	}

	return ""
}

func buildISODate(year, month, day string) string {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)

	if len(year) == 2 {
		if y <= 30 {
			y += 2000
		} else {
			y += 1900
		}
	}

	candidate := fmt.Sprintf("%04d-%02d-%02d", y, m, d)
	parsed, err := time.Parse(isoDateLayout, candidate)
	if err != nil || parsed.Format(isoDateLayout) != candidate {
		return ""
	}
	return candidate
}

// LooksLikePersonName reports whether text plausibly names a person:
// 1-4 whitespace-separated tokens of letters, apostrophes, and hyphens,
// free of digits, question marks, and form-field jargon. When allowTitle
// is set, a leading "Dr."/"Doctor" token is stripped before checking.
func LooksLikePersonName(text string, allowTitle bool) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if strings.ContainsAny(trimmed, "0123456789?") {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, deny := range nameDenyList {
		if strings.Contains(lower, deny) {
			return false
		}
	}

	if allowTitle {
		trimmed = doctorTitlePattern.ReplaceAllString(trimmed, "")
		if trimmed == "" {
			return false
		}
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) < 1 || len(tokens) > 4 {
		return false
	}
	for _, token := range tokens {
		if !nameTokenPattern.MatchString(token) {
			return false
		}
	}
	return true
}

// HasOrganisationHint reports whether text contains a facility keyword
// (clinic, hospital, radiology, ...).
func HasOrganisationHint(text string) bool {
	lower := strings.ToLower(text)
	for _, hint := range organisationHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// LooksLikeOrganisationOrPerson reports whether text is either a plausible
// person name or an organisation-like value: it carries an organisation
// hint token (clinic, hospital, radiology, ...), spans 1-8 tokens, and uses
// only letters, digits, and basic punctuation.
func LooksLikeOrganisationOrPerson(text string) bool {
	if LooksLikePersonName(text, true) {
		return true
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.Contains(trimmed, "?") {
		return false
	}

	if !HasOrganisationHint(trimmed) {
		return false
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) < 1 || len(tokens) > 8 {
		return false
	}
	for _, token := range tokens {
		if !orgTokenPattern.MatchString(token) {
			return false
		}
	}
	return true
}
