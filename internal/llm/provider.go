// Package llm holds the correction providers: hosted models that map a text
// snapshot to a fully corrected text and a list of point corrections.
package llm

import (
	"context"
	"time"

	"github.com/Alfex4936/spellfix/internal/model"
)

const (
	DefaultGeminiModel = "gemini-1.5-pro"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultBaseURL     = "https://api.openai.com/v1"
)

// Provider maps a text snapshot to corrections computed against it.
// Offsets in the returned corrections are rune offsets into text and are not
// trusted; callers validate them.
type Provider interface {
	Name() string
	Correct(ctx context.Context, text string, opts Options) (*Response, error)
}

// Options carries per-request hints.
type Options struct {
	// ProtectedWords are never to be flagged (names, jargon).
	ProtectedWords []string
}

// Response is a provider answer for one text snapshot.
type Response struct {
	CorrectedText string
	Corrections   []model.Correction
}

// Config is shared by the hosted providers. Unset fields take defaults.
type Config struct {
	APIKey          string
	Model           string
	BaseURL         string
	Timeout         time.Duration
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

func (c Config) withDefaults(model string) Config {
	if c.Model == "" {
		c.Model = model
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = 1024
	}
	return c
}
