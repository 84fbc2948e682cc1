package config

import (
	"fmt"
	"os"
	"strconv"
)

const EnvExtractionPromptBudget = "MDPA_EXTRACTION_PROMPT_BUDGET"

// ExtractionConfig holds field extraction parameters. PromptBudget is the
// transcript character budget for the extraction prompt; transcripts over
// budget are truncated head-and-tail before the model call.
type ExtractionConfig struct {
	PromptBudget int `toml:"prompt_budget"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ExtractionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ExtractionConfig) Merge(overlay *ExtractionConfig) {
	if overlay.PromptBudget != 0 {
		c.PromptBudget = overlay.PromptBudget
	}
}

func (c *ExtractionConfig) loadDefaults() {
	if c.PromptBudget == 0 {
		c.PromptBudget = 3000
	}
}

func (c *ExtractionConfig) loadEnv() {
	if v := os.Getenv(EnvExtractionPromptBudget); v != "" {
		if budget, err := strconv.Atoi(v); err == nil {
			c.PromptBudget = budget
		}
	}
}

func (c *ExtractionConfig) validate() error {
	if c.PromptBudget < 0 {
		return fmt.Errorf("invalid prompt_budget: %d", c.PromptBudget)
	}
	return nil
}
