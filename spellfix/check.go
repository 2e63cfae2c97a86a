// Package spellfix checks text with a hosted language model and keeps the
// returned correction spans usable while the text is being edited.
//
// The pure core is Render, Apply, ApplyAll and Validate. Checker talks to a
// provider, splitting long documents into chunks; Session and SessionStore
// tie a text buffer to its pending corrections.
package spellfix

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/Alfex4936/spellfix/internal/chunk"
	"github.com/Alfex4936/spellfix/internal/fallback"
	"github.com/Alfex4936/spellfix/internal/llm"
	"github.com/Alfex4936/spellfix/internal/metrics"
	"github.com/Alfex4936/spellfix/internal/model"
	"github.com/Alfex4936/spellfix/internal/util"
)

const (
	DefaultThreshold   = 2000
	DefaultMaxRunes    = 1500
	DefaultParallelism = 4

	// editDistanceCap bounds the quadratic Levenshtein over whole documents.
	// Longer documents report the sum of per-correction distances.
	editDistanceCap = 10000
)

// Checker runs documents through a provider. It never returns provider
// errors: a chunk whose call fails is answered by the fallback table (or left
// uncorrected) and the result is marked Degraded.
type Checker struct {
	provider    llm.Provider
	fallback    *fallback.Table
	threshold   int
	maxRunes    int
	parallelism int
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(*Checker)

// WithFallback answers failed chunks from t. Without it they get no
// corrections.
func WithFallback(t *fallback.Table) Option { return func(c *Checker) { c.fallback = t } }

// WithChunking splits documents longer than threshold runes into chunks of at
// most maxRunes runes.
func WithChunking(threshold, maxRunes int) Option {
	return func(c *Checker) {
		if threshold > 0 {
			c.threshold = threshold
		}
		if maxRunes > 0 {
			c.maxRunes = maxRunes
		}
	}
}

// WithParallelism bounds concurrent provider calls per document.
func WithParallelism(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option { return func(c *Checker) { c.metrics = m } }

func NewChecker(p llm.Provider, opts ...Option) *Checker {
	c := &Checker{
		provider:    p,
		threshold:   DefaultThreshold,
		maxRunes:    DefaultMaxRunes,
		parallelism: DefaultParallelism,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.maxRunes > c.threshold {
		c.maxRunes = c.threshold
	}
	return c
}

// Provider is the backend this checker calls.
func (c *Checker) Provider() llm.Provider { return c.provider }

// Check corrects text. Offsets in the result are rune offsets into text.
// dict may be nil.
//
// The only errors are ErrEmptyText and cancellation of ctx by the caller.
func (c *Checker) Check(ctx context.Context, text string, dict *Dict) (*model.Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	words := dict.normalized()

	parts := chunk.Split(text, c.threshold, c.maxRunes)
	out := make([]chunkResult, len(parts))

	var g errgroup.Group
	g.SetLimit(c.parallelism)
	for i, p := range parts {
		g.Go(func() error {
			out[i] = c.checkChunk(ctx, p, words)
			return nil
		})
	}
	_ = g.Wait()
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, ctx.Err()
	}

	res := &model.Result{
		Original:    text,
		CharCount:   utf8.RuneCountInString(text),
		ChunkCount:  len(parts),
		Corrections: []model.Correction{},
	}
	replaced := make([]string, len(parts))
	for i, cr := range out {
		replaced[i] = cr.corrected
		for _, item := range cr.items {
			item.StartIndex += parts[i].Offset
			item.EndIndex += parts[i].Offset
			res.Corrections = append(res.Corrections, item)
		}
		if cr.failure != nil {
			res.Degraded = true
			if res.Failure == nil {
				res.Failure = failureView(cr.failure)
			}
		}
	}
	sort.Slice(res.Corrections, func(i, j int) bool {
		return res.Corrections[i].StartIndex < res.Corrections[j].StartIndex
	})

	res.CorrectedText = chunk.Merge(text, parts, replaced)
	res.ErrorCount = len(res.Corrections)
	res.EditDistance = editDistance(res)

	c.metrics.ObserveCheck(res.Degraded, res.ErrorCount)
	c.logger.Debug("check finished",
		"provider", c.provider.Name(),
		"runes", res.CharCount,
		"chunks", res.ChunkCount,
		"corrections", res.ErrorCount,
		"degraded", res.Degraded)
	return res, nil
}

/***----- private -----***/

type chunkResult struct {
	corrected string
	items     []model.Correction // chunk-relative offsets
	failure   *llm.ProviderError
}

func (c *Checker) checkChunk(ctx context.Context, p chunk.Chunk, words []string) chunkResult {
	resp, err := c.provider.Correct(ctx, p.Text, llm.Options{ProtectedWords: words})
	if err != nil {
		pe := llm.Classify(c.provider.Name(), err)
		c.logger.Warn("provider failed, falling back",
			"provider", pe.Provider, "chunk", p.Index, "kind", pe.Kind, "error", pe)
		c.metrics.ObserveFallback(string(pe.Kind))

		cr := chunkResult{corrected: p.Text, items: []model.Correction{}, failure: pe}
		if c.fallback != nil {
			cr.items = filterByDict(c.fallback.Check(p.Text), words)
			cr.corrected = applySpans(p.Text, cr.items)
		}
		return cr
	}

	items := Validate(p.Text, resp.Corrections)

	// With protected words the provider's text may touch them outside any
	// kept correction, so the chunk is rebuilt from the kept spans.
	corrected := resp.CorrectedText
	if corrected == "" || len(words) > 0 {
		items = filterByDict(items, words)
		corrected = applySpans(p.Text, items)
	}
	return chunkResult{corrected: corrected, items: items}
}

func editDistance(res *model.Result) int {
	if res.CharCount+utf8.RuneCountInString(res.CorrectedText) <= editDistanceCap {
		return util.Levenshtein(res.Original, res.CorrectedText)
	}
	sum := 0
	for _, c := range res.Corrections {
		sum += c.Distance
	}
	return sum
}

// failureView is what the editing surface shows for a provider failure. All
// kinds are transient from the user's point of view.
func failureView(pe *llm.ProviderError) *model.Failure {
	f := &model.Failure{Kind: string(pe.Kind), Provider: pe.Provider, Retryable: true}
	switch pe.Kind {
	case llm.KindRateLimited:
		f.Message = "The correction service is busy. Your text is unchanged; try again in a moment."
	case llm.KindMalformed:
		f.Message = "The correction service sent an answer that could not be read. Try checking again."
	default:
		f.Message = "The correction service is unavailable right now. Your text is unchanged; try again shortly."
	}
	return f
}
