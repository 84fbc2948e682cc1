package extract_test

import (
	"testing"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/extract"
)

func TestNeedsFullTranscriptNotTruncated(t *testing.T) {
	fs := &extract.FieldSet{}
	if extract.NeedsFullTranscript(false, fs) {
		t.Error("untruncated prompts never trigger a retry")
	}
}

func TestNeedsFullTranscriptStrongResult(t *testing.T) {
	if extract.NeedsFullTranscript(true, completeFields()) {
		t.Error("complete high-confidence result should not trigger a retry")
	}
}

func TestNeedsFullTranscriptEmptyField(t *testing.T) {
	fs := completeFields()
	fs.AssignedDoctor = ""

	if !extract.NeedsFullTranscript(true, fs) {
		t.Error("empty required field on a truncated prompt should trigger a retry")
	}
}

func TestNeedsFullTranscriptBelowFloor(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*extract.FieldSet)
		retry  bool
	}{
		{
			name:   "patient name below 0.45",
			mutate: func(f *extract.FieldSet) { f.PatientNameConfidence = 0.44 },
			retry:  true,
		},
		{
			name:   "patient name at 0.45",
			mutate: func(f *extract.FieldSet) { f.PatientNameConfidence = 0.45 },
			retry:  false,
		},
		{
			name:   "report date below 0.40",
			mutate: func(f *extract.FieldSet) { f.ReportDateConfidence = 0.39 },
			retry:  true,
		},
		{
			name:   "report date at 0.40",
			mutate: func(f *extract.FieldSet) { f.ReportDateConfidence = 0.40 },
			retry:  false,
		},
		{
			name:   "source contact below 0.45",
			mutate: func(f *extract.FieldSet) { f.SourceContactConfidence = 0.42 },
			retry:  true,
		},
		{
			name:   "assigned doctor below 0.45",
			mutate: func(f *extract.FieldSet) { f.AssignedDoctorConfidence = 0.42 },
			retry:  true,
		},
		{
			name:   "category at 0.42 clears 0.40 floor",
			mutate: func(f *extract.FieldSet) { f.CategoryConfidence = 0.42 },
			retry:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := completeFields()
			tt.mutate(fs)

			if got := extract.NeedsFullTranscript(true, fs); got != tt.retry {
				t.Errorf("NeedsFullTranscript = %v, want %v", got, tt.retry)
			}
		})
	}
}

func TestWeakFields(t *testing.T) {
	fs := completeFields()
	fs.PatientName = ""
	fs.CategoryConfidence = 0.1

	weak := extract.WeakFields(fs)
	if len(weak) != 2 {
		t.Fatalf("WeakFields = %v, want 2 entries", weak)
	}
	if weak[0] != "patient_name" || weak[1] != "category" {
		t.Errorf("WeakFields = %v, want [patient_name category]", weak)
	}
}

func TestWeakFieldsNone(t *testing.T) {
	if weak := extract.WeakFields(completeFields()); len(weak) != 0 {
		t.Errorf("WeakFields = %v, want empty", weak)
	}
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := extract.DefaultRetryPolicy()
	if policy.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2", policy.MaxAttempts)
	}
	if policy.Trigger == nil {
		t.Fatal("Trigger should default to NeedsFullTranscript")
	}
	if policy.Trigger(false, &extract.FieldSet{}) {
		t.Error("default trigger must not fire on untruncated prompts")
	}
}

func TestPlaceholderFieldSet(t *testing.T) {
	fs := extract.PlaceholderFieldSet()
	if fs.Subject != "Manual Review Required" {
		t.Errorf("Subject = %q, want %q", fs.Subject, "Manual Review Required")
	}
	if fs.Category != "Uncategorized" {
		t.Errorf("Category = %q, want %q", fs.Category, "Uncategorized")
	}
	if fs.StoreIn != "Investigations" {
		t.Errorf("StoreIn = %q, want %q", fs.StoreIn, "Investigations")
	}
	if fs.SubjectConfidence != 0 || fs.CategoryConfidence != 0 {
		t.Error("placeholder confidences must be zero")
	}
}
