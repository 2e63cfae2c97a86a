package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies provider failures. None of them is fatal to an editing
// session; all are reported as transient.
type Kind string

const (
	KindUnavailable Kind = "unavailable"
	KindRateLimited Kind = "rate_limited"
	KindMalformed   Kind = "malformed"
)

var (
	ErrUnavailable = errors.New("llm: provider unavailable")
	ErrRateLimited = errors.New("llm: provider rate limited")
	ErrMalformed   = errors.New("llm: provider response malformed")
)

// ProviderError is the only error type providers return.
type ProviderError struct {
	Kind       Kind
	Provider   string
	StatusCode int           // HTTP status when known
	RetryAfter time.Duration // server hint for rate limits
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("llm: %s %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is matches the Kind sentinels.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrMalformed:
		return e.Kind == KindMalformed
	}
	return false
}

// Retryable reports whether another attempt may succeed: rate limits,
// transport failures and 5xx. Auth and request errors are final.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case KindRateLimited:
		return true
	case KindUnavailable:
		if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
			return false
		}
		return e.StatusCode == 0 || e.StatusCode >= 500 || e.StatusCode == http.StatusRequestTimeout
	}
	return false
}

// Classify wraps any error from a provider SDK into a *ProviderError.
func Classify(provider string, err error) *ProviderError {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	out := &ProviderError{Kind: KindUnavailable, Provider: provider, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	var gErr *googleapi.Error
	var blocked *genai.BlockedError
	switch {
	case errors.As(err, &apiErr):
		out.StatusCode = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		out.StatusCode = reqErr.HTTPStatusCode
	case errors.As(err, &gErr):
		out.StatusCode = gErr.Code
		if ra := gErr.Header.Get("Retry-After"); ra != "" {
			out.RetryAfter = ParseRetryAfter(ra)
		}
	case errors.As(err, &blocked):
		out.Kind = KindMalformed
		return out
	default:
		if s, ok := status.FromError(err); ok {
			switch s.Code() {
			case codes.ResourceExhausted:
				out.Kind = KindRateLimited
			case codes.InvalidArgument, codes.PermissionDenied, codes.Unauthenticated:
				out.StatusCode = http.StatusBadRequest
			}
			return out
		}
	}

	if out.StatusCode == http.StatusTooManyRequests || strings.Contains(err.Error(), "429") {
		out.Kind = KindRateLimited
	}
	return out
}

// FromStatus classifies a raw HTTP status from a provider endpoint.
func FromStatus(provider string, code int, retryAfter string, body string) *ProviderError {
	e := &ProviderError{Kind: KindUnavailable, Provider: provider, StatusCode: code}
	if code == http.StatusTooManyRequests {
		e.Kind = KindRateLimited
		e.RetryAfter = ParseRetryAfter(retryAfter)
	}
	if body = strings.TrimSpace(body); body != "" {
		if len(body) > 256 {
			body = body[:256]
		}
		e.Err = errors.New(body)
	}
	return e
}

// ParseRetryAfter accepts delta-seconds or an HTTP date.
func ParseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
