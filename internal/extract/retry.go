package extract

// RetryPolicy bounds the full-transcript re-extraction: at most MaxAttempts
// model calls per document, with the second attempt taken only when Trigger
// fires on the first result.
type RetryPolicy struct {
	MaxAttempts int
	Trigger     func(truncated bool, fs *FieldSet) bool
}

// DefaultRetryPolicy retries once, and only when the prompt was truncated
// and the result still has a weak required field.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		Trigger:     NeedsFullTranscript,
	}
}

// NeedsFullTranscript reports whether a truncated-prompt extraction left any
// required field empty or below its confidence floor, suggesting the answer
// lives in the elided middle of the document.
func NeedsFullTranscript(truncated bool, fs *FieldSet) bool {
	if !truncated {
		return false
	}

	for _, field := range requiredFields {
		if field.value(fs) == "" || field.conf(fs) < field.floor {
			return true
		}
	}

	return false
}

// WeakFields lists the required fields that are empty or below their
// confidence floor. Used for review summaries and retry logging.
func WeakFields(fs *FieldSet) []string {
	var weak []string
	for _, field := range requiredFields {
		if field.value(fs) == "" || field.conf(fs) < field.floor {
			weak = append(weak, field.name)
		}
	}

	return weak
}
