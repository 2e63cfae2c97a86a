package spellfix

import (
	"context"
	"sync/atomic"

	"github.com/Alfex4936/spellfix/internal/llm"
	"github.com/Alfex4936/spellfix/internal/model"
)

// fakeProvider answers with fn, counting calls.
type fakeProvider struct {
	fn    func(ctx context.Context, text string, opts llm.Options) (*llm.Response, error)
	calls atomic.Int32
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Correct(ctx context.Context, text string, opts llm.Options) (*llm.Response, error) {
	f.calls.Add(1)
	return f.fn(ctx, text, opts)
}

func fixed(corrected string, cs ...model.Correction) *fakeProvider {
	return &fakeProvider{fn: func(context.Context, string, llm.Options) (*llm.Response, error) {
		return &llm.Response{CorrectedText: corrected, Corrections: cs}, nil
	}}
}

func failing(kind llm.Kind) *fakeProvider {
	return &fakeProvider{fn: func(context.Context, string, llm.Options) (*llm.Response, error) {
		return nil, &llm.ProviderError{Kind: kind, Provider: "fake"}
	}}
}

// gated blocks every call until release is closed, signalling entered first.
func gated(inner *fakeProvider) (p *fakeProvider, entered chan struct{}, release chan struct{}) {
	entered = make(chan struct{}, 8)
	release = make(chan struct{})
	p = &fakeProvider{fn: func(ctx context.Context, text string, opts llm.Options) (*llm.Response, error) {
		entered <- struct{}{}
		<-release
		return inner.fn(ctx, text, opts)
	}}
	return p, entered, release
}

const apple = "I has a apple."

var (
	hasFix   = model.Correction{Original: "has", Suggestion: "have", StartIndex: 2, EndIndex: 5}
	appleFix = model.Correction{Original: "a apple", Suggestion: "an apple", StartIndex: 6, EndIndex: 13}
)

func appleProvider() *fakeProvider { return fixed("I have an apple.", hasFix, appleFix) }

func concat(segs []model.Segment) string {
	s := ""
	for _, seg := range segs {
		s += seg.Content
	}
	return s
}
