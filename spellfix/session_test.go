package spellfix

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alfex4936/spellfix/internal/llm"
	"github.com/Alfex4936/spellfix/internal/model"
)

func newStore(p *fakeProvider) *SessionStore {
	return NewSessionStore(NewChecker(p), time.Minute, 10, nil)
}

func TestSessionFlow(t *testing.T) {
	st := newStore(appleProvider())
	s := st.Create(apple, nil)

	v, err := s.Check(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, v.Corrections, 2)
	assert.Len(t, v.Segments, 5)
	rev := v.Revision

	v = s.Apply(model.Span{Start: 2, End: 5})
	assert.Equal(t, "I have a apple.", v.Text)
	assert.Equal(t, rev+1, v.Revision)
	require.Len(t, v.Corrections, 1)
	assert.Equal(t, model.Span{Start: 7, End: 14}, v.Corrections[0].Key())
	assert.Equal(t, `Changed "has" to "have"`, v.Message)

	// clicking the applied span again does nothing
	again := s.Apply(model.Span{Start: 2, End: 5})
	assert.Equal(t, v.Text, again.Text)
	assert.Equal(t, v.Revision, again.Revision)

	v = s.ApplyAll()
	assert.Equal(t, "I have an apple.", v.Text)
	assert.Empty(t, v.Corrections)

	second := s.ApplyAll()
	assert.Equal(t, v.Text, second.Text)
	assert.Equal(t, v.Revision, second.Revision)
}

func TestSessionApplyAllClearsAnyState(t *testing.T) {
	s := newStore(appleProvider()).Create(apple, nil)
	_, err := s.Check(context.Background(), false)
	require.NoError(t, err)
	s.Apply(model.Span{Start: 6, End: 13})

	v := s.ApplyAll()
	assert.Equal(t, "I have an apple.", v.Text)
	assert.Empty(t, v.Corrections)
}

func TestSessionStaleCheckIsDiscarded(t *testing.T) {
	p, entered, release := gated(appleProvider())
	s := newStore(p).Create(apple, nil)

	errc := make(chan error, 1)
	go func() {
		_, err := s.Check(context.Background(), false)
		errc <- err
	}()

	<-entered
	s.SetText("I has a pear.")
	close(release)

	assert.ErrorIs(t, <-errc, ErrStale)
	v := s.View()
	assert.Equal(t, "I has a pear.", v.Text)
	assert.Empty(t, v.Corrections)
}

func TestSessionSharedCheckSurvivesFirstCallerCancel(t *testing.T) {
	inner := &fakeProvider{fn: func(ctx context.Context, text string, opts llm.Options) (*llm.Response, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return appleProvider().fn(ctx, text, opts)
	}}
	p, entered, release := gated(inner)
	s := newStore(p).Create(apple, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := s.Check(ctx, false)
		errc <- err
	}()
	<-entered

	type outcome struct {
		v   SessionView
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		v, err := s.Check(context.Background(), false)
		second <- outcome{v, err}
	}()

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	close(release)

	got := <-second
	require.NoError(t, got.err)
	assert.False(t, got.v.Degraded)
	assert.Len(t, got.v.Corrections, 2)
}

func TestSessionSetTextKeepsMatching(t *testing.T) {
	s := newStore(appleProvider()).Create(apple, nil)
	_, err := s.Check(context.Background(), false)
	require.NoError(t, err)

	v := s.SetText("I has a apple!")
	assert.Len(t, v.Corrections, 2)
	assert.Empty(t, v.CorrectedText)

	v = s.ApplyAll()
	assert.Equal(t, "I has a apple!", v.Text)
	assert.Len(t, v.Corrections, 2, "pending corrections are kept")
	assert.Equal(t, "Text changed since the last check; 2 corrections are still pending, check again to apply all", v.Message)

	v = s.SetText("You has a apple!")
	assert.Empty(t, v.Corrections)

	// no corrected text until the next check
	v = s.ApplyAll()
	assert.Equal(t, "You has a apple!", v.Text)
	assert.Equal(t, "No corrected text; check first", v.Message)
}

func TestSessionAutoCheckSkipsShortText(t *testing.T) {
	p := appleProvider()
	s := newStore(p).Create("  tiny  ", nil)

	v, err := s.Check(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, v.Corrections)
	assert.Zero(t, p.calls.Load())

	s.SetText(apple)
	_, err = s.Check(context.Background(), true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.calls.Load())
}

func TestSessionEmptyTextNeverCallsProvider(t *testing.T) {
	p := appleProvider()
	s := newStore(p).Create("   ", nil)
	v, err := s.Check(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, v.Corrections)
	assert.Zero(t, p.calls.Load())
}

func TestStoreLifecycle(t *testing.T) {
	st := newStore(appleProvider())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	a := st.Create("one", nil)
	b := st.Create("two", nil)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, st.Len())

	now = now.Add(45 * time.Second)
	_, err := st.Get(a.ID)
	require.NoError(t, err)

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, st.Sweep())

	_, err = st.Get(b.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, st.Delete(a.ID))
	assert.ErrorIs(t, st.Delete(a.ID), ErrSessionNotFound)
	assert.Zero(t, st.Len())
}
