package spellfix

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alfex4936/spellfix/internal/config"
	"github.com/Alfex4936/spellfix/internal/fallback"
	"github.com/Alfex4936/spellfix/internal/llm"
	"github.com/Alfex4936/spellfix/internal/metrics"
)

// NewProvider builds the configured backend, wrapped with retries and rate
// limiting. release frees it and is never nil.
func NewProvider(ctx context.Context, cfg config.ProviderConfig, logger *slog.Logger, m *metrics.Metrics) (p llm.Provider, release func() error, err error) {
	release = func() error { return nil }
	lc := llm.Config{
		APIKey:          cfg.APIKey,
		Model:           cfg.Model,
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout,
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}

	var inner llm.Provider
	switch cfg.Kind {
	case "gemini":
		g, err := llm.NewGemini(ctx, lc)
		if err != nil {
			return nil, release, err
		}
		inner, release = g, g.Close
	case "openai":
		inner = llm.NewOpenAI(lc)
	case "compat":
		c, err := llm.NewCompat(lc)
		if err != nil {
			return nil, release, err
		}
		inner = c
	case "fallback":
		return fallback.New(nil), release, nil
	default:
		return nil, release, fmt.Errorf("spellfix: unknown provider kind %q", cfg.Kind)
	}

	policy := llm.DefaultPolicy()
	policy.MaxAttempts = cfg.MaxAttempts
	if cfg.RetryDelay > 0 {
		policy.RetryDelay = cfg.RetryDelay
	}
	policy.RequestsPerMinute = cfg.RequestsPerMinute
	return llm.NewClient(inner, policy, logger, m), release, nil
}

// NewCheckerFromConfig wires a checker for p from the chunk and check
// sections.
func NewCheckerFromConfig(cfg *config.Config, p llm.Provider, logger *slog.Logger, m *metrics.Metrics) *Checker {
	opts := []Option{
		WithChunking(cfg.Chunk.Threshold, cfg.Chunk.MaxRunes),
		WithParallelism(cfg.Chunk.Parallelism),
		WithLogger(logger),
		WithMetrics(m),
	}
	if cfg.Check.Fallback {
		opts = append(opts, WithFallback(fallback.New(nil)))
	}
	return NewChecker(p, opts...)
}
