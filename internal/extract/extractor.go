package extract

import (
	"context"
	"log/slog"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/ai"
)

// Input carries the per-document material the orchestrator works from.
type Input struct {
	Transcript string
	Filename   string
}

// Result is a completed extraction: the enriched field set plus provenance
// about how it was produced.
type Result struct {
	Fields    FieldSet
	Provider  string
	Model     string
	Usage     ai.TokenUsage
	Truncated bool
	Retried   bool
}

// Extractor orchestrates a single document extraction: prompt construction
// under the character budget, model invocation through the failover client,
// strict parsing, enrichment, and the bounded full-transcript retry.
type Extractor struct {
	client *ai.Client
	budget int
	policy RetryPolicy
	logger *slog.Logger
}

func NewExtractor(client *ai.Client, promptBudget int, logger *slog.Logger) *Extractor {
	return &Extractor{
		client: client,
		budget: promptBudget,
		policy: DefaultRetryPolicy(),
		logger: logger.With("system", "extract"),
	}
}

// Extract runs the extraction pipeline for one transcript. A truncated
// first attempt that leaves required fields weak is retried once with the
// full transcript; a failed retry keeps the first result rather than
// failing the document.
func (e *Extractor) Extract(ctx context.Context, in Input) (*Result, error) {
	prompt, truncated := BuildPrompt(in.Transcript, e.budget)
	if truncated {
		e.logger.Info("transcript over prompt budget, truncating",
			"filename", in.Filename,
			"budget", e.budget,
			"transcript_chars", len(in.Transcript))
	}

	result, err := e.attempt(ctx, prompt, in)
	if err != nil {
		return nil, err
	}
	result.Truncated = truncated

	if e.policy.MaxAttempts > 1 && e.policy.Trigger(truncated, &result.Fields) {
		e.logger.Info("weak fields after truncated extraction, retrying with full transcript",
			"filename", in.Filename,
			"weak_fields", WeakFields(&result.Fields))

		fullPrompt, _ := BuildPrompt(in.Transcript, 0)
		retry, retryErr := e.attempt(ctx, fullPrompt, in)
		if retryErr != nil {
			e.logger.Warn("full-transcript retry failed, keeping truncated result",
				"filename", in.Filename,
				"error", retryErr)
			return result, nil
		}

		retry.Truncated = truncated
		retry.Retried = true
		return retry, nil
	}

	return result, nil
}

func (e *Extractor) attempt(ctx context.Context, prompt string, in Input) (*Result, error) {
	response, err := e.client.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	fs, err := ParseResponse(response.Content)
	if err != nil {
		return nil, err
	}

	Enrich(fs, in.Transcript, in.Filename, e.logger)

	return &Result{
		Fields:   *fs,
		Provider: response.Provider,
		Model:    response.Model,
		Usage:    response.Usage,
	}, nil
}
