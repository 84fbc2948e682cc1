package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Client routes extraction prompts to the active backend, failing over to
// the secondary backend at most once per call. Each backend sits behind its
// own circuit breaker so a dead endpoint stops consuming the call timeout.
type Client struct {
	active   Provider
	fallback Provider
	breakers map[string]*gobreaker.CircuitBreaker[*Response]
	timeout  time.Duration
	logger   *slog.Logger
}

// NewClient builds a Client from config. The configured primary backend is
// selected when it has credentials; otherwise the other backend is
// substituted with a warning. Returns ErrNotConfigured when neither backend
// has credentials.
func NewClient(cfg *Config, logger *slog.Logger) (*Client, error) {
	logger = logger.With("system", "ai")
	httpClient := &http.Client{Timeout: cfg.TimeoutDuration()}

	gemini := NewGemini(cfg.Gemini, httpClient)
	openai := NewOpenAI(cfg.OpenAI, httpClient)

	var primary, secondary Provider = gemini, openai
	if cfg.Primary == BackendOpenAI {
		primary, secondary = openai, gemini
	}

	primaryConfigured := backendConfigured(cfg, primary)
	secondaryConfigured := backendConfigured(cfg, secondary)

	switch {
	case primaryConfigured && secondaryConfigured:
	case primaryConfigured:
		secondary = nil
	case secondaryConfigured:
		logger.Warn(
			"primary ai backend has no credentials; substituting secondary",
			"primary", primary.Name(),
			"substitute", secondary.Name(),
		)
		primary, secondary = secondary, nil
	default:
		return nil, ErrNotConfigured
	}

	c := &Client{
		active:   primary,
		fallback: secondary,
		breakers: make(map[string]*gobreaker.CircuitBreaker[*Response]),
		timeout:  cfg.TimeoutDuration(),
		logger:   logger,
	}

	c.breakers[primary.Name()] = c.newBreaker(primary.Name())
	if secondary != nil {
		c.breakers[secondary.Name()] = c.newBreaker(secondary.Name())
	}

	logger.Info(
		"ai client ready",
		"active", primary.Name(),
		"model", primary.Model(),
		"has_fallback", secondary != nil,
	)

	return c, nil
}

// ActiveProvider returns the name of the currently selected backend.
func (c *Client) ActiveProvider() string {
	return c.active.Name()
}

// Generate sends prompt to the active backend. On any failure it retries
// once against the fallback backend if one is configured; a second failure
// propagates both errors to the caller. No further retries are attempted.
func (c *Client) Generate(ctx context.Context, prompt string) (*Response, error) {
	resp, primaryErr := c.call(ctx, c.active, prompt)
	if primaryErr == nil {
		return resp, nil
	}

	if c.fallback == nil {
		return nil, fmt.Errorf("%s: %w", c.active.Name(), primaryErr)
	}

	c.logger.Warn(
		"ai backend failed; retrying against fallback",
		"backend", c.active.Name(),
		"fallback", c.fallback.Name(),
		"error", primaryErr,
	)

	resp, fallbackErr := c.call(ctx, c.fallback, prompt)
	if fallbackErr == nil {
		return resp, nil
	}

	return nil, errors.Join(
		fmt.Errorf("%s: %w", c.active.Name(), primaryErr),
		fmt.Errorf("%s: %w", c.fallback.Name(), fallbackErr),
	)
}

func (c *Client) call(ctx context.Context, p Provider, prompt string) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.breakers[p.Name()].Execute(func() (*Response, error) {
		return p.Generate(callCtx, prompt)
	})
}

func (c *Client) newBreaker(name string) *gobreaker.CircuitBreaker[*Response] {
	settings := gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn(
				"ai breaker state change",
				"backend", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return gobreaker.NewCircuitBreaker[*Response](settings)
}

func backendConfigured(cfg *Config, p Provider) bool {
	switch p.Name() {
	case BackendGemini:
		return cfg.Gemini.Configured()
	case BackendOpenAI:
		return cfg.OpenAI.Configured()
	}
	return false
}
