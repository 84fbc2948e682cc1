// Package ocr provides the transcription collaborator client. It drives the
// Azure Document Intelligence prebuilt-read flow (submit, poll, collect) and
// reduces the result to the transcript, page count, and word confidence the
// pipeline consumes. Page layout is only materialized when requested by the
// document highlight endpoint.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for transcription operations.
var (
	ErrAnalyzeFailed = errors.New("document analysis failed")
	ErrPollTimeout   = errors.New("document analysis timed out")
)

// Result is the reduced outcome of a transcription run.
type Result struct {
	Text                  string  `json:"text"`
	PageCount             int     `json:"page_count"`
	AverageWordConfidence float64 `json:"average_word_confidence"`
	Layout                []Page  `json:"layout,omitempty"`
}

// Page holds per-page line layout for UI highlighting.
type Page struct {
	PageNumber int     `json:"page_number"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Lines      []Line  `json:"lines"`
}

// Line is a recognized text line with its bounding polygon.
type Line struct {
	Content string    `json:"content"`
	Polygon []float64 `json:"polygon"`
}

// System defines the transcription contract consumed by the pipeline.
type System interface {
	// Analyze submits file bytes for transcription and blocks until the
	// analysis completes. Layout is populated only when includeLayout is set.
	Analyze(ctx context.Context, data []byte, contentType string, includeLayout bool) (*Result, error)
}

type client struct {
	endpoint     string
	apiKey       string
	apiVersion   string
	pollInterval time.Duration
	pollTimeout  time.Duration
	http         *http.Client
	logger       *slog.Logger
}

// New creates a transcription client from the given configuration.
func New(cfg *Config, logger *slog.Logger) System {
	return &client{
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:       cfg.APIKey,
		apiVersion:   cfg.APIVersion,
		pollInterval: cfg.PollIntervalDuration(),
		pollTimeout:  cfg.PollTimeoutDuration(),
		http:         &http.Client{Timeout: 60 * time.Second},
		logger:       logger.With("system", "ocr"),
	}
}

type analyzeResult struct {
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	AnalyzeResult *struct {
		Content string `json:"content"`
		Pages   []struct {
			PageNumber int     `json:"pageNumber"`
			Width      float64 `json:"width"`
			Height     float64 `json:"height"`
			Words      []struct {
				Content    string  `json:"content"`
				Confidence float64 `json:"confidence"`
			} `json:"words"`
			Lines []struct {
				Content string    `json:"content"`
				Polygon []float64 `json:"polygon"`
			} `json:"lines"`
		} `json:"pages"`
	} `json:"analyzeResult"`
}

func (c *client) Analyze(ctx context.Context, data []byte, contentType string, includeLayout bool) (*Result, error) {
	operationURL, err := c.submit(ctx, data)
	if err != nil {
		return nil, err
	}

	raw, err := c.poll(ctx, operationURL)
	if err != nil {
		return nil, err
	}

	result := reduce(raw, includeLayout)
	c.logger.Info(
		"document analyzed",
		"content_type", contentType,
		"pages", result.PageCount,
		"characters", len(result.Text),
		"avg_word_confidence", result.AverageWordConfidence,
	)

	return result, nil
}

func (c *client) submit(ctx context.Context, data []byte) (string, error) {
	body, err := json.Marshal(map[string]string{
		"base64Source": base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return "", fmt.Errorf("encode analyze request: %w", err)
	}

	url := fmt.Sprintf(
		"%s/documentintelligence/documentModels/prebuilt-read:analyze?api-version=%s",
		c.endpoint, c.apiVersion,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: submit: %w", ErrAnalyzeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: submit status %d: %s", ErrAnalyzeFailed, resp.StatusCode, raw)
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", fmt.Errorf("%w: missing Operation-Location header", ErrAnalyzeFailed)
	}

	return operationURL, nil
}

func (c *client) poll(ctx context.Context, operationURL string) (*analyzeResult, error) {
	deadline := time.Now().Add(c.pollTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		result, err := c.fetch(ctx, operationURL)
		if err != nil {
			return nil, err
		}

		switch result.Status {
		case "succeeded":
			return result, nil
		case "failed":
			if result.Error != nil {
				return nil, fmt.Errorf("%w: %s: %s", ErrAnalyzeFailed, result.Error.Code, result.Error.Message)
			}
			return nil, ErrAnalyzeFailed
		}

		if time.Now().After(deadline) {
			return nil, ErrPollTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *client) fetch(ctx context.Context, operationURL string) (*analyzeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: poll: %w", ErrAnalyzeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: poll status %d: %s", ErrAnalyzeFailed, resp.StatusCode, raw)
	}

	var result analyzeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode poll response: %w", ErrAnalyzeFailed, err)
	}

	return &result, nil
}

func reduce(raw *analyzeResult, includeLayout bool) *Result {
	result := &Result{}
	if raw.AnalyzeResult == nil {
		return result
	}

	result.Text = raw.AnalyzeResult.Content
	result.PageCount = len(raw.AnalyzeResult.Pages)

	var confidenceSum float64
	var wordCount int

	for _, page := range raw.AnalyzeResult.Pages {
		for _, word := range page.Words {
			confidenceSum += word.Confidence
			wordCount++
		}

		if includeLayout {
			lines := make([]Line, len(page.Lines))
			for i, line := range page.Lines {
				lines[i] = Line{Content: line.Content, Polygon: line.Polygon}
			}
			result.Layout = append(result.Layout, Page{
				PageNumber: page.PageNumber,
				Width:      page.Width,
				Height:     page.Height,
				Lines:      lines,
			})
		}
	}

	if wordCount > 0 {
		result.AverageWordConfidence = confidenceSum / float64(wordCount)
	}

	return result
}
