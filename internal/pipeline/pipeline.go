// Package pipeline coordinates the end-to-end processing of one document:
// blob upload and registration, OCR, field extraction, persistence, and the
// transition into review. OCR and persistence failures abort the run and
// leave the document in processing; total extraction failures degrade to a
// placeholder field set so a human can still file the document.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/documents"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/extract"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/extractions"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/fields"
	"github.com/dheerajram13/Medical-Document-Processing-AI-Agent/internal/ocr"
)

// StageTiming records the wall-clock duration of one pipeline stage.
type StageTiming struct {
	Stage      string  `json:"stage"`
	DurationMS float64 `json:"duration_ms"`
}

// Result reports a completed pipeline run. Degraded indicates the
// extraction failed entirely and a placeholder field set was stored.
type Result struct {
	Document   *documents.Document     `json:"document"`
	Extraction *extractions.Extraction `json:"extraction"`
	Degraded   bool                    `json:"degraded"`
	Stages     []StageTiming           `json:"stages"`
	TotalMS    float64                 `json:"total_ms"`
}

// Coordinator runs the document processing pipeline.
type Coordinator struct {
	documents   documents.System
	extractions extractions.System
	ocr         ocr.System
	extractor   *extract.Extractor
	logger      *slog.Logger
}

func NewCoordinator(
	docs documents.System,
	extr extractions.System,
	reader ocr.System,
	extractor *extract.Extractor,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		documents:   docs,
		extractions: extr,
		ocr:         reader,
		extractor:   extractor,
		logger:      logger.With("system", "pipeline"),
	}
}

// Process runs the full pipeline for one uploaded file and leaves the
// document in review. The returned error is non-nil only for failures that
// prevent review entirely (upload, OCR, persistence); those leave the
// document in its current non-review status.
func (c *Coordinator) Process(ctx context.Context, cmd documents.CreateCommand) (*Result, error) {
	run := newStopwatch()

	doc, err := c.documents.Create(ctx, cmd)
	run.lap("upload")
	if err != nil {
		return nil, fmt.Errorf("register document: %w", err)
	}

	if doc, err = c.documents.SetStatus(ctx, doc.ID, documents.StatusProcessing); err != nil {
		return nil, err
	}

	// Fatal stage failures leave the document in processing; there is no
	// silent fallback and the caller decides what happens next.
	text, pages, err := c.transcribe(ctx, cmd)
	run.lap("ocr")
	if err != nil {
		return nil, fmt.Errorf("ocr document %s: %w", doc.ID, err)
	}

	if pages != nil && doc.PageCount == nil {
		if err := c.documents.SetPageCount(ctx, doc.ID, *pages); err != nil {
			c.logger.Warn("failed to record page count",
				"id", doc.ID,
				"pages", *pages,
				"error", err)
		}
	}

	create, degraded := c.extractFields(ctx, doc.ID, text, cmd.Filename)
	run.lap("extract")

	extraction, err := c.extractions.Create(ctx, *create)
	run.lap("persist")
	if err != nil {
		return nil, fmt.Errorf("persist extraction for %s: %w", doc.ID, err)
	}

	if doc, err = c.documents.SetStatus(ctx, doc.ID, documents.StatusReview); err != nil {
		return nil, err
	}

	result := &Result{
		Document:   doc,
		Extraction: extraction,
		Degraded:   degraded,
		Stages:     run.stages,
		TotalMS:    run.totalMS(),
	}

	observeRun(run, degraded)

	c.logger.Info("document processed",
		"id", doc.ID,
		"filename", doc.Filename,
		"degraded", degraded,
		"workflow_type", extraction.WorkflowType,
		"total_ms", result.TotalMS)

	return result, nil
}

func (c *Coordinator) transcribe(ctx context.Context, cmd documents.CreateCommand) (string, *int, error) {
	result, err := c.ocr.Analyze(ctx, cmd.Data, cmd.ContentType, false)
	if err != nil {
		return "", nil, err
	}

	pages := result.PageCount
	return result.Text, &pages, nil
}

// extractFields runs the extraction and builds the persistence command.
// A total extraction failure is absorbed into the degraded placeholder
// path; the document still reaches review.
func (c *Coordinator) extractFields(
	ctx context.Context,
	documentID uuid.UUID,
	transcript string,
	filename string,
) (*extractions.CreateCommand, bool) {
	result, err := c.extractor.Extract(ctx, extract.Input{
		Transcript: transcript,
		Filename:   filename,
	})

	if err != nil {
		c.logger.Error("extraction failed, storing placeholder for manual review",
			"document_id", documentID,
			"error", err)

		fs := extract.PlaceholderFieldSet()
		return &extractions.CreateCommand{
			DocumentID:    documentID,
			Fields:        fs,
			Workflow:      fields.DeriveWorkflow(fs.Category, fs.StoreIn),
			RawResponse:   auditBlob(nil, err),
			FailureReason: err.Error(),
		}, true
	}

	return &extractions.CreateCommand{
		DocumentID:  documentID,
		Fields:      result.Fields,
		Workflow:    fields.DeriveWorkflow(result.Fields.Category, result.Fields.StoreIn),
		Provider:    result.Provider,
		Model:       result.Model,
		RawResponse: auditBlob(result, nil),
	}, false
}

// auditBlob records how an extraction was produced alongside the stored
// fields, so review tooling can show provenance without re-deriving it.
func auditBlob(result *extract.Result, cause error) json.RawMessage {
	audit := map[string]any{}

	if result != nil {
		audit["provider"] = result.Provider
		audit["model"] = result.Model
		audit["usage"] = result.Usage
		audit["truncated"] = result.Truncated
		audit["retried"] = result.Retried
	}

	if cause != nil {
		audit["error"] = cause.Error()
	}

	raw, err := json.Marshal(audit)
	if err != nil {
		return nil
	}
	return raw
}

// stopwatch accumulates per-stage lap times for a pipeline run.
type stopwatch struct {
	start  time.Time
	last   time.Time
	stages []StageTiming
}

func newStopwatch() *stopwatch {
	now := time.Now()
	return &stopwatch{start: now, last: now}
}

func (s *stopwatch) lap(stage string) {
	now := time.Now()
	s.stages = append(s.stages, StageTiming{
		Stage:      stage,
		DurationMS: float64(now.Sub(s.last).Microseconds()) / 1000,
	})
	s.last = now
}

func (s *stopwatch) totalMS() float64 {
	return float64(time.Since(s.start).Microseconds()) / 1000
}
