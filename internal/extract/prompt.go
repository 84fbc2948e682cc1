package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/fields"
)

const truncationMarker = "[TRUNCATED]"

const promptTemplate = `You are a medical records clerk filing an incoming document into a
general practice clinical system. Read the transcript below and extract the
filing fields as JSON.

Respond with a single JSON object containing exactly these keys:

  patient_name      - full name of the patient the document is about
  report_date       - date of the report or letter, format YYYY-MM-DD
  subject           - short subject line describing the document
  source_contact    - the person or organisation that sent the document
  store_in          - either "Investigations" or "Correspondence"
  assigned_doctor   - the practice doctor the document should be routed to
  category          - exactly one value from the category list below

For each of those seven keys also include a matching <key>_confidence key
holding a number between 0 and 1 reflecting how certain you are of the value.

You may additionally include any of these optional keys when the transcript
supports them: date_of_birth, patient_id, specialist, facility, urgency,
summary, each with a matching <key>_confidence. When present, urgency must
be one of "routine", "urgent", or "emergency".

Category list (use one value verbatim):
%s

Rules:
- Use only information present in the transcript. Never invent names or dates.
- Dates in the transcript are Australian (day first). Output YYYY-MM-DD.
- If a value cannot be determined, use an empty string with confidence 0.
- Respond with JSON only. No prose, no markdown fences.

Transcript:
%s`

var (
	spaceRuns   = regexp.MustCompile(`[ \t]{2,}`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
)

// compactWhitespace collapses horizontal whitespace runs and excess blank
// lines so the transcript spends the prompt budget on content.
func compactWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// truncateTranscript keeps the head and tail of an over-budget transcript
// in a 70/30 split with a marker between them. Document headers and
// signature blocks carry most of the filing signal.
func truncateTranscript(text string, budget int) (string, bool) {
	if budget <= 0 || len(text) <= budget {
		return text, false
	}

	head := budget * 7 / 10
	tail := budget - head

	return text[:head] + "\n" + truncationMarker + "\n" + text[len(text)-tail:], true
}

// BuildPrompt renders the extraction prompt for a transcript, compacting
// whitespace and truncating to the character budget when necessary. The
// returned flag reports whether truncation occurred.
func BuildPrompt(transcript string, budget int) (string, bool) {
	compact := compactWhitespace(transcript)
	body, truncated := truncateTranscript(compact, budget)

	return fmt.Sprintf(promptTemplate, strings.Join(fields.Categories, "\n"), body), truncated
}
