package spellfix

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/Alfex4936/spellfix/internal/metrics"
	"github.com/Alfex4936/spellfix/internal/model"
	"github.com/Alfex4936/spellfix/internal/util"
)

// Session is one text buffer and the corrections pending against it.
// Every change to the text bumps Revision; a check result computed for an
// older revision is discarded.
type Session struct {
	ID string

	checker  *Checker
	dict     *Dict
	minRunes int
	metrics  *metrics.Metrics
	flight   singleflight.Group

	mu            sync.Mutex
	text          string
	revision      uint64
	corrections   []model.Correction
	correctedText string
	failure       *model.Failure
}

// SessionView is a consistent snapshot of a session.
type SessionView struct {
	ID            string             `json:"id"`
	Revision      uint64             `json:"revision"`
	Text          string             `json:"text"`
	CorrectedText string             `json:"correctedText,omitempty"`
	Corrections   []model.Correction `json:"corrections"`
	Segments      []model.Segment    `json:"segments"`
	Degraded      bool               `json:"degraded"`
	Failure       *model.Failure     `json:"failure,omitempty"`
	Message       string             `json:"message,omitempty"`
}

// NewSession builds a standalone session. Sessions served over HTTP come
// from a SessionStore.
func NewSession(checker *Checker, text string, dict *Dict) *Session {
	return &Session{
		ID:          uuid.NewString(),
		checker:     checker,
		dict:        dict,
		text:        text,
		corrections: []model.Correction{},
	}
}

func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked("")
}

func (s *Session) viewLocked(msg string) SessionView {
	cs := clone(s.corrections)
	return SessionView{
		ID:            s.ID,
		Revision:      s.revision,
		Text:          s.text,
		CorrectedText: s.correctedText,
		Corrections:   cs,
		Segments:      Render(s.text, cs),
		Degraded:      s.failure != nil,
		Failure:       s.failure,
		Message:       msg,
	}
}

// SetText replaces the buffer. Pending corrections that still hold their
// original text at the same offsets survive; the provider's corrected text
// does not, so ApplyAll does nothing until the next check.
func (s *Session) SetText(text string) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.text {
		return s.viewLocked("")
	}
	s.text = text
	s.revision++
	s.correctedText = ""
	s.failure = nil

	runes := []rune(text)
	kept := s.corrections[:0]
	for _, c := range s.corrections {
		if c.StartIndex >= 0 && c.EndIndex <= len(runes) && c.StartIndex < c.EndIndex &&
			util.Slice(runes, c.StartIndex, c.EndIndex) == c.Original {
			kept = append(kept, c)
		}
	}
	s.corrections = kept
	return s.viewLocked("")
}

// Check runs the checker on the current text and installs the result unless
// the text changed meanwhile, in which case it returns ErrStale. Concurrent
// checks of the same revision share one provider round trip.
//
// With auto set, a text of at most minRunes runes after trimming is left
// unchecked.
func (s *Session) Check(ctx context.Context, auto bool) (SessionView, error) {
	s.mu.Lock()
	rev, text := s.revision, s.text
	s.mu.Unlock()

	trimmed := strings.TrimSpace(text)
	if auto && util.RuneLen(trimmed) <= s.minRunes {
		return s.View(), nil
	}
	if trimmed == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.revision != rev {
			return SessionView{}, ErrStale
		}
		s.corrections = []model.Correction{}
		s.correctedText = text
		s.failure = nil
		return s.viewLocked(""), nil
	}

	ch := s.flight.DoChan(strconv.FormatUint(rev, 10), func() (any, error) {
		// Shared by every caller of this revision, so detached from the
		// first caller's cancellation.
		sctx, cancel := sharedContext(ctx)
		defer cancel()
		return s.checker.Check(sctx, text, s.dict)
	})
	var r singleflight.Result
	select {
	case r = <-ch:
	case <-ctx.Done():
		return SessionView{}, ctx.Err()
	}
	if r.Err != nil {
		return SessionView{}, r.Err
	}
	res := r.Val.(*model.Result)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revision != rev {
		s.metrics.ObserveStale()
		return SessionView{}, ErrStale
	}
	s.corrections = clone(res.Corrections)
	s.correctedText = res.CorrectedText
	s.failure = res.Failure
	return s.viewLocked(""), nil
}

// sharedContext keeps ctx's values and deadline but not its cancellation.
func sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(DefaultCheckTimeout)
	}
	return context.WithDeadline(context.WithoutCancel(ctx), deadline)
}

// Apply applies the pending correction with exactly this span. Clicking a
// span that is no longer pending changes nothing.
func (s *Session) Apply(span model.Span) SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	chosen, ok := Lookup(s.corrections, span.Start, span.End)
	if !ok {
		return s.viewLocked("")
	}
	res := Apply(s.text, chosen, s.corrections)
	if res.Applied {
		s.text = res.Text
		s.revision++
	}
	s.corrections = res.Remaining
	return s.viewLocked(res.Message)
}

// ApplyAll replaces the buffer with the provider's corrected text and clears
// the pending set. After SetText there is no corrected text, so it changes
// nothing and says how many corrections remain pending.
func (s *Session) ApplyAll() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.correctedText == "" {
		switch n := len(s.corrections); n {
		case 0:
			return s.viewLocked("No corrected text; check first")
		case 1:
			return s.viewLocked("Text changed since the last check; 1 correction is still pending, check again to apply all")
		default:
			return s.viewLocked(fmt.Sprintf("Text changed since the last check; %d corrections are still pending, check again to apply all", n))
		}
	}
	res := ApplyAll(s.correctedText, s.corrections)
	if res.Text != s.text {
		s.text = res.Text
		s.revision++
	}
	s.corrections = res.Remaining
	return s.viewLocked(res.Message)
}

// SessionStore keeps live sessions by ID and evicts idle ones.
type SessionStore struct {
	checker  *Checker
	ttl      time.Duration
	minRunes int
	metrics  *metrics.Metrics
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	s        *Session
	lastUsed time.Time
}

// NewSessionStore evicts sessions idle for longer than ttl; ttl <= 0 keeps
// them until deleted. minRunes is the auto-check floor.
func NewSessionStore(checker *Checker, ttl time.Duration, minRunes int, m *metrics.Metrics) *SessionStore {
	return &SessionStore{
		checker:  checker,
		ttl:      ttl,
		minRunes: minRunes,
		metrics:  m,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

func (st *SessionStore) Create(text string, dict *Dict) *Session {
	s := NewSession(st.checker, text, dict)
	s.minRunes = st.minRunes
	s.metrics = st.metrics

	st.mu.Lock()
	st.sessions[s.ID] = &entry{s: s, lastUsed: st.now()}
	n := len(st.sessions)
	st.mu.Unlock()

	st.metrics.SetSessions(n)
	return s
}

// Get returns the session and marks it used.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastUsed = st.now()
	return e.s, nil
}

func (st *SessionStore) Delete(id string) error {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	st.metrics.SetSessions(n)
	return nil
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep evicts idle sessions and reports how many were removed.
func (st *SessionStore) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	removed := 0
	for id, e := range st.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	if removed > 0 {
		st.metrics.SetSessions(n)
	}
	return removed
}

// Run sweeps periodically until ctx is done.
func (st *SessionStore) Run(ctx context.Context) {
	if st.ttl <= 0 {
		return
	}
	interval := max(st.ttl/2, time.Second)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st.Sweep()
		}
	}
}
