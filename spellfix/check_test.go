package spellfix

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alfex4936/spellfix/internal/fallback"
	"github.com/Alfex4936/spellfix/internal/llm"
	"github.com/Alfex4936/spellfix/internal/model"
)

func TestCheckScenario(t *testing.T) {
	c := NewChecker(appleProvider())
	res, err := c.Check(context.Background(), apple, nil)
	require.NoError(t, err)

	assert.Equal(t, apple, res.Original)
	assert.Equal(t, "I have an apple.", res.CorrectedText)
	assert.Equal(t, 14, res.CharCount)
	assert.Equal(t, 1, res.ChunkCount)
	assert.Equal(t, 2, res.ErrorCount)
	assert.Equal(t, 3, res.EditDistance)
	assert.False(t, res.Degraded)
	assert.Nil(t, res.Failure)
}

func TestCheckValidatesProviderOutput(t *testing.T) {
	p := fixed("I have an apple.",
		appleFix,
		model.Correction{Original: "has", Suggestion: "have", StartIndex: 1, EndIndex: 4}, // miscounted
		model.Correction{Original: "apple", Suggestion: "pear", StartIndex: 40, EndIndex: 45},
	)
	res, err := NewChecker(p).Check(context.Background(), apple, nil)
	require.NoError(t, err)

	require.Len(t, res.Corrections, 2)
	assert.Equal(t, hasFix.Key(), res.Corrections[0].Key())
	assert.Equal(t, appleFix.Key(), res.Corrections[1].Key())
}

func TestCheckEmptyText(t *testing.T) {
	p := appleProvider()
	_, err := NewChecker(p).Check(context.Background(), "  \n\t", nil)
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Zero(t, p.calls.Load())
}

func TestCheckFailureFallsBack(t *testing.T) {
	c := NewChecker(failing(llm.KindRateLimited), WithFallback(fallback.New(nil)))
	text := "I recieve teh mail."
	res, err := c.Check(context.Background(), text, nil)
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	require.NotNil(t, res.Failure)
	assert.Equal(t, "rate_limited", res.Failure.Kind)
	assert.True(t, res.Failure.Retryable)
	assert.NotEmpty(t, res.Failure.Message)
	assert.Len(t, res.Corrections, 2)
	assert.Equal(t, "I receive the mail.", res.CorrectedText)
}

func TestCheckFailureWithoutFallback(t *testing.T) {
	for _, kind := range []llm.Kind{llm.KindUnavailable, llm.KindRateLimited, llm.KindMalformed} {
		t.Run(string(kind), func(t *testing.T) {
			res, err := NewChecker(failing(kind)).Check(context.Background(), "I recieve teh mail.", nil)
			require.NoError(t, err)
			assert.True(t, res.Degraded)
			assert.Equal(t, string(kind), res.Failure.Kind)
			assert.Empty(t, res.Corrections)
			assert.Equal(t, res.Original, res.CorrectedText)
		})
	}
}

func TestCheckRawErrorIsClassified(t *testing.T) {
	p := &fakeProvider{fn: func(context.Context, string, llm.Options) (*llm.Response, error) {
		return nil, assert.AnError
	}}
	res, err := NewChecker(p).Check(context.Background(), apple, nil)
	require.NoError(t, err)
	assert.Equal(t, "unavailable", res.Failure.Kind)
}

func TestCheckProtectedWords(t *testing.T) {
	text := "kubectl teh docs"
	var seen []string
	p := &fakeProvider{fn: func(_ context.Context, _ string, opts llm.Options) (*llm.Response, error) {
		seen = opts.ProtectedWords
		return &llm.Response{
			CorrectedText: "kube control the docs",
			Corrections: []model.Correction{
				{Original: "kubectl", Suggestion: "kube control", StartIndex: 0, EndIndex: 7},
				{Original: "teh", Suggestion: "the", StartIndex: 8, EndIndex: 11},
			},
		}, nil
	}}
	res, err := NewChecker(p).Check(context.Background(), text, NewDict("kubectl"))
	require.NoError(t, err)

	assert.Equal(t, []string{"kubectl"}, seen)
	require.Len(t, res.Corrections, 1)
	assert.Equal(t, "teh", res.Corrections[0].Original)
	assert.Equal(t, "kubectl the docs", res.CorrectedText)
}

func TestCheckProtectedWordsLeaveUncoveredTextAlone(t *testing.T) {
	text := "Grab a bit of caek please."
	// the provider also rewrites text outside its only correction
	p := fixed("Grab abit of cake please.",
		model.Correction{Original: "caek", Suggestion: "cake", StartIndex: 14, EndIndex: 18})

	res, err := NewChecker(p).Check(context.Background(), text, NewDict("ab"))
	require.NoError(t, err)

	require.Len(t, res.Corrections, 1)
	assert.Equal(t, "Grab a bit of cake please.", res.CorrectedText)
	assert.Equal(t, applySpans(text, res.Corrections), res.CorrectedText)
}

func TestCheckCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fakeProvider{fn: func(ctx context.Context, _ string, _ llm.Options) (*llm.Response, error) {
		return nil, ctx.Err()
	}}
	_, err := NewChecker(p).Check(ctx, apple, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func longDoc() string {
	paras := []string{
		"I recieve teh letters every morning.",
		"Teh goverment will decide tommorow.",
		"We beleive it is definately wierd.",
		"Thier plan is to seperate teh teams untill friday.",
	}
	var b strings.Builder
	for i := 0; i < 6; i++ {
		for _, p := range paras {
			b.WriteString(p)
			b.WriteString("\n\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func TestCheckChunkedEquivalence(t *testing.T) {
	text := longDoc()
	table := fallback.New(nil)

	whole, err := NewChecker(table, WithChunking(1<<20, 1<<20)).Check(context.Background(), text, nil)
	require.NoError(t, err)
	chunked, err := NewChecker(table, WithChunking(100, 80), WithParallelism(3)).Check(context.Background(), text, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, whole.ChunkCount)
	assert.Greater(t, chunked.ChunkCount, 1)
	assert.Equal(t, whole.CorrectedText, chunked.CorrectedText)
	assert.Equal(t, whole.Corrections, chunked.Corrections)
	assert.Equal(t, text, concat(Render(text, chunked.Corrections)))
	assert.Len(t, Highlighted(Render(text, chunked.Corrections)), len(chunked.Corrections))
}

func TestCheckChunkFailureIsLocal(t *testing.T) {
	text := "first paragraph is fine\n\nteh second one fails"
	p := &fakeProvider{fn: func(_ context.Context, s string, _ llm.Options) (*llm.Response, error) {
		if strings.HasPrefix(s, "teh") {
			return nil, &llm.ProviderError{Kind: llm.KindUnavailable, Provider: "fake", StatusCode: 503}
		}
		return &llm.Response{CorrectedText: "First paragraph is fine", Corrections: []model.Correction{
			{Original: "first", Suggestion: "First", StartIndex: 0, EndIndex: 5},
		}}, nil
	}}
	c := NewChecker(p, WithChunking(30, 25), WithFallback(fallback.New(nil)))
	res, err := c.Check(context.Background(), text, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.ChunkCount)
	assert.True(t, res.Degraded)
	require.Len(t, res.Corrections, 2)
	assert.Equal(t, "First", res.Corrections[0].Suggestion)
	assert.Equal(t, 25, res.Corrections[1].StartIndex)
	assert.Equal(t, "First paragraph is fine\n\nthe second one fails", res.CorrectedText)
}
