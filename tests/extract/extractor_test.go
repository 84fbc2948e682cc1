package extract_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/ai"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/extract"
)

func extractorLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completionBody(t *testing.T, content string) string {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"content": content}},
		},
		"usage": map[string]any{
			"prompt_tokens":     100,
			"completion_tokens": 30,
			"total_tokens":      130,
		},
	})
	if err != nil {
		t.Fatalf("marshal completion: %v", err)
	}
	return string(body)
}

// modelServer serves the given completion bodies in request order, repeating
// the last one once exhausted, and reports how many calls it received.
func modelServer(t *testing.T, bodies ...string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := int(calls.Add(1)) - 1
		if i >= len(bodies) {
			i = len(bodies) - 1
		}
		io.WriteString(w, bodies[i])
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newExtractor(t *testing.T, serverURL string, budget int) *extract.Extractor {
	t.Helper()
	cfg := &ai.Config{
		Primary: ai.BackendOpenAI,
		Timeout: "5s",
		OpenAI:  ai.BackendConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: serverURL},
	}
	client, err := ai.NewClient(cfg, extractorLogger())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return extract.NewExtractor(client, budget, extractorLogger())
}

// filler is long enough to trip a 100-character prompt budget while carrying
// no dates or keywords the enrichment pass could latch onto.
const filler = "Clinical narrative prose describing the presentation and examination " +
	"findings at length, continuing across several sentences of plain text " +
	"with nothing machine readable embedded anywhere in the body of it."

func TestExtract(t *testing.T) {
	server, calls := modelServer(t, completionBody(t, marshal(t, validResponse())))
	ex := newExtractor(t, server.URL, 0)

	result, err := ex.Extract(context.Background(), extract.Input{
		Transcript: filler,
		Filename:   "referral.pdf",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.Fields.PatientName != "Jane Citizen" {
		t.Errorf("PatientName = %q", result.Fields.PatientName)
	}
	if result.Provider != ai.BackendOpenAI || result.Model != "gpt-4o-mini" {
		t.Errorf("provenance = %s/%s", result.Provider, result.Model)
	}
	if result.Usage.TotalTokens != 130 {
		t.Errorf("TotalTokens = %d, want 130", result.Usage.TotalTokens)
	}
	if result.Truncated || result.Retried {
		t.Errorf("Truncated = %v, Retried = %v, want false/false", result.Truncated, result.Retried)
	}
	if calls.Load() != 1 {
		t.Errorf("model calls = %d, want 1", calls.Load())
	}
}

func TestExtractRetriesWeakTruncatedResult(t *testing.T) {
	weak := validResponse()
	weak["patient_name"] = ""
	weak["patient_name_confidence"] = 0.0

	server, calls := modelServer(t,
		completionBody(t, marshal(t, weak)),
		completionBody(t, marshal(t, validResponse())),
	)
	ex := newExtractor(t, server.URL, 100)

	result, err := ex.Extract(context.Background(), extract.Input{
		Transcript: filler,
		Filename:   "referral.pdf",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !result.Truncated {
		t.Error("expected truncated result")
	}
	if !result.Retried {
		t.Error("expected full-transcript retry")
	}
	if result.Fields.PatientName != "Jane Citizen" {
		t.Errorf("PatientName = %q, want retry result", result.Fields.PatientName)
	}
	if calls.Load() != 2 {
		t.Errorf("model calls = %d, want 2", calls.Load())
	}
}

func TestExtractKeepsFirstResultOnFailedRetry(t *testing.T) {
	weak := validResponse()
	weak["patient_name"] = ""
	weak["patient_name_confidence"] = 0.0

	server, calls := modelServer(t,
		completionBody(t, marshal(t, weak)),
		completionBody(t, "I could not read the rest of the document."),
	)
	ex := newExtractor(t, server.URL, 100)

	result, err := ex.Extract(context.Background(), extract.Input{
		Transcript: filler,
		Filename:   "referral.pdf",
	})
	if err != nil {
		t.Fatalf("Extract should keep the first result: %v", err)
	}

	if result.Retried {
		t.Error("failed retry must not be marked retried")
	}
	if result.Fields.Subject != "CT Chest" {
		t.Errorf("Subject = %q, want first-attempt fields", result.Fields.Subject)
	}
	if calls.Load() != 2 {
		t.Errorf("model calls = %d, want 2", calls.Load())
	}
}

func TestExtractStrongTruncatedResultSkipsRetry(t *testing.T) {
	server, calls := modelServer(t, completionBody(t, marshal(t, validResponse())))
	ex := newExtractor(t, server.URL, 100)

	result, err := ex.Extract(context.Background(), extract.Input{
		Transcript: filler,
		Filename:   "referral.pdf",
	})
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !result.Truncated {
		t.Error("expected truncated result")
	}
	if result.Retried {
		t.Error("strong fields must not trigger a retry")
	}
	if calls.Load() != 1 {
		t.Errorf("model calls = %d, want 1", calls.Load())
	}
}

func TestExtractPropagatesBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "overloaded"}`, http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	ex := newExtractor(t, server.URL, 0)

	_, err := ex.Extract(context.Background(), extract.Input{
		Transcript: filler,
		Filename:   "referral.pdf",
	})
	if err == nil {
		t.Fatal("expected backend failure to propagate")
	}
	if !strings.Contains(err.Error(), "openai") {
		t.Errorf("error should name the backend: %v", err)
	}
}
