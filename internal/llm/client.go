package llm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"

	"github.com/Alfex4936/spellfix/internal/metrics"
)

// Policy controls how a Client spends requests against a provider.
type Policy struct {
	MaxAttempts       uint          // total attempts, >= 1
	RetryDelay        time.Duration // base backoff delay
	MaxRetryDelay     time.Duration
	RequestsPerMinute int // 0 disables limiting
}

// DefaultPolicy mirrors what free-tier hosted models tolerate.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:       3,
		RetryDelay:        300 * time.Millisecond,
		MaxRetryDelay:     10 * time.Second,
		RequestsPerMinute: 60,
	}
}

// Client wraps a Provider with rate limiting, retries and instrumentation.
// It is itself a Provider and safe for concurrent use.
type Client struct {
	inner   Provider
	policy  Policy
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewClient decorates p. logger and m may be nil.
func NewClient(p Provider, policy Policy, logger *slog.Logger, m *metrics.Metrics) *Client {
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{inner: p, policy: policy, logger: logger, metrics: m}
	if policy.RequestsPerMinute > 0 {
		burst := max(1, policy.RequestsPerMinute/10)
		c.limiter = rate.NewLimiter(rate.Limit(float64(policy.RequestsPerMinute)/60.0), burst)
	}
	return c
}

func (c *Client) Name() string { return c.inner.Name() }

// Correct calls the wrapped provider. The returned error, if any, is always a
// *ProviderError.
func (c *Client) Correct(ctx context.Context, text string, opts Options) (*Response, error) {
	name := c.inner.Name()
	resp, err := retry.DoWithData(
		func() (*Response, error) {
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					return nil, &ProviderError{Kind: KindUnavailable, Provider: name, Err: err}
				}
			}
			start := time.Now()
			resp, err := c.inner.Correct(ctx, text, opts)
			pe := Classify(name, err)
			c.metrics.ObserveProvider(name, outcome(pe), time.Since(start))
			if pe != nil {
				return nil, pe
			}
			return resp, nil
		},
		retry.Context(ctx),
		retry.Attempts(c.policy.MaxAttempts),
		retry.Delay(c.policy.RetryDelay),
		retry.MaxDelay(c.policy.MaxRetryDelay),
		retry.DelayType(retryAfterOrBackoff),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var pe *ProviderError
			return errors.As(err, &pe) && pe.Retryable()
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("provider call failed, retrying",
				"provider", name, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		if pe := Classify(name, err); pe != nil {
			return nil, pe
		}
	}
	return resp, nil
}

func retryAfterOrBackoff(n uint, err error, cfg *retry.Config) time.Duration {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.RetryAfter > 0 {
		return pe.RetryAfter
	}
	return retry.BackOffDelay(n, err, cfg)
}

func outcome(pe *ProviderError) string {
	if pe == nil {
		return "ok"
	}
	return string(pe.Kind)
}
