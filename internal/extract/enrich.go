package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/fields"
)

// Fallback confidences are deliberately below the model's typical range so
// reviewers can tell a recovered value from an extracted one.
const (
	confTranscriptDate      = 0.75
	confFilenameDate        = 0.45
	confRegistrationForm    = 0.88
	confFacilityLine        = 0.6
	confRegistrationContact = 0.35
	confDoctorPattern       = 0.55
	confContactReuse        = 0.3
)

var (
	dateTokenPattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}|\d{8})\b`)
	doctorPattern    = regexp.MustCompile(`\bDr\.?\s+([A-Z][A-Za-z'\-]+(?:\s+[A-Z][A-Za-z'\-]+){0,2})`)

	registrationHints = []string{
		"new patient form",
		"new patient registration",
		"patient registration",
		"registration form",
		"personal details information sheet",
	}

	dateContextHints = []string{"signature", "signed", "date"}
	dateContextDeny  = []string{"birth", "dob", "d.o.b", "expiry", "medicare"}
)

// registrationContactPlaceholder stands in for the source contact on
// registration forms, which are sent by the patient rather than a facility.
const registrationContactPlaceholder = "Patient Registration"

// Enrich applies the deterministic recovery pass to an extracted field set:
// canonicalisation, date repair, registration form handling, heuristic
// rejection of implausible names, and confidence-scored fallbacks for
// source contact and assigned doctor. It mutates fs in place.
func Enrich(fs *FieldSet, transcript, filename string, logger *slog.Logger) {
	canonicaliseCategory(fs, logger)
	canonicaliseUrgency(fs, logger)
	repairReportDate(fs, transcript, filename)

	registration := isRegistrationForm(transcript, fs.Subject)
	if registration {
		applyRegistrationDefaults(fs)
	}

	rejectImplausibleNames(fs, logger)

	if fs.SourceContact == "" {
		recoverSourceContact(fs, transcript, registration)
	}

	if fs.AssignedDoctor == "" {
		recoverAssignedDoctor(fs, transcript, registration)
	}

	// Fallback values face the same plausibility bar as model output.
	rejectImplausibleNames(fs, logger)
}

func canonicaliseCategory(fs *FieldSet, logger *slog.Logger) {
	if fs.Category == "" {
		return
	}

	canonical, ok := fields.CanonicalCategory(fs.Category)
	if !ok {
		logger.Warn("discarding unrecognised category", "category", fs.Category)
		fs.Category = ""
		fs.CategoryConfidence = 0
		return
	}

	fs.Category = canonical
}

func canonicaliseUrgency(fs *FieldSet, logger *slog.Logger) {
	if fs.Urgency == "" {
		return
	}

	canonical, ok := fields.CanonicalUrgency(fs.Urgency)
	if !ok {
		logger.Warn("discarding unrecognised urgency", "urgency", fs.Urgency)
		fs.Urgency = ""
		fs.UrgencyConfidence = 0
		return
	}

	fs.Urgency = canonical
}

func repairReportDate(fs *FieldSet, transcript, filename string) {
	if sanitized := fields.SanitizeDate(fs.ReportDate); sanitized != "" {
		fs.ReportDate = sanitized
		return
	}

	fs.ReportDate = ""
	fs.ReportDateConfidence = 0

	if date := scanTranscriptDate(transcript); date != "" {
		fs.ReportDate = date
		fs.ReportDateConfidence = confTranscriptDate
		return
	}

	if date := scanFilenameDate(filename); date != "" {
		fs.ReportDate = date
		fs.ReportDateConfidence = confFilenameDate
	}
}

// scanTranscriptDate looks for a date token on a line whose neighbourhood
// mentions a signature or date label, skipping lines that are clearly about
// birth dates or card expiries.
func scanTranscriptDate(transcript string) string {
	lines := strings.Split(transcript, "\n")

	for i, line := range lines {
		window := strings.ToLower(line)
		if i > 0 {
			window += " " + strings.ToLower(lines[i-1])
		}
		if i < len(lines)-1 {
			window += " " + strings.ToLower(lines[i+1])
		}

		if !containsAny(window, dateContextHints) || containsAny(window, dateContextDeny) {
			continue
		}

		for _, token := range dateTokenPattern.FindAllString(line, -1) {
			if date := fields.SanitizeDate(token); date != "" {
				return date
			}
		}
	}

	return ""
}

func scanFilenameDate(filename string) string {
	for _, token := range dateTokenPattern.FindAllString(filename, -1) {
		if date := fields.SanitizeDate(token); date != "" {
			return date
		}
	}

	return ""
}

func isRegistrationForm(transcript, subject string) bool {
	haystack := strings.ToLower(transcript) + "\n" + strings.ToLower(subject)
	return containsAny(haystack, registrationHints)
}

func applyRegistrationDefaults(fs *FieldSet) {
	if fs.Category == "" {
		fs.CategoryConfidence = confRegistrationForm
	}
	fs.Category = fields.CategoryRegistration

	if fs.Subject == "" {
		fs.Subject = "Patient Registration Form"
		fs.SubjectConfidence = confRegistrationForm
	}

	fs.StoreIn = fields.StoreCorrespondence
}

func rejectImplausibleNames(fs *FieldSet, logger *slog.Logger) {
	if fs.SourceContact != "" && !fields.LooksLikeOrganisationOrPerson(fs.SourceContact) {
		logger.Warn("discarding implausible source contact", "value", fs.SourceContact)
		fs.SourceContact = ""
		fs.SourceContactConfidence = 0
	}

	if fs.AssignedDoctor != "" && !fields.LooksLikePersonName(fs.AssignedDoctor, true) {
		logger.Warn("discarding implausible assigned doctor", "value", fs.AssignedDoctor)
		fs.AssignedDoctor = ""
		fs.AssignedDoctorConfidence = 0
	}
}

// recoverSourceContact scans the transcript head for a facility-looking
// line; registration forms fall back to a fixed placeholder.
func recoverSourceContact(fs *FieldSet, transcript string, registration bool) {
	if line := scanFacilityLine(transcript); line != "" {
		fs.SourceContact = line
		fs.SourceContactConfidence = confFacilityLine
		return
	}

	if registration {
		fs.SourceContact = registrationContactPlaceholder
		fs.SourceContactConfidence = confRegistrationContact
	}
}

func scanFacilityLine(transcript string) string {
	lines := strings.Split(transcript, "\n")
	if len(lines) > 20 {
		lines = lines[:20]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if fields.LooksLikeOrganisationOrPerson(line) && fields.HasOrganisationHint(line) {
			return line
		}
	}

	return ""
}

// recoverAssignedDoctor extracts the first titled doctor name from the
// transcript; registration forms can reuse a person-shaped source contact.
func recoverAssignedDoctor(fs *FieldSet, transcript string, registration bool) {
	if match := doctorPattern.FindStringSubmatch(transcript); match != nil {
		name := "Dr " + match[1]
		if fields.LooksLikePersonName(name, true) {
			fs.AssignedDoctor = name
			fs.AssignedDoctorConfidence = confDoctorPattern
			return
		}
	}

	if registration && fs.SourceContact != "" && fs.SourceContact != registrationContactPlaceholder &&
		fields.LooksLikePersonName(fs.SourceContact, true) {
		fs.AssignedDoctor = fs.SourceContact
		fs.AssignedDoctorConfidence = confContactReuse
	}
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}

	return false
}
