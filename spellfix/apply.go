package spellfix

import (
	"fmt"
	"strings"

	"github.com/Alfex4936/spellfix/internal/model"
	"github.com/Alfex4936/spellfix/internal/util"
)

// ApplyResult is the buffer and pending set after applying corrections.
type ApplyResult struct {
	Text      string             `json:"text"`
	Remaining []model.Correction `json:"remaining"`
	Applied   bool               `json:"applied"`
	Message   string             `json:"message,omitempty"`
}

// Apply replaces chosen's span in text with chosen's suggestion and returns
// the pending set without the entry at that span. Pending corrections that start at or after the end
// of the replaced span move by the length change; the others keep their
// offsets, so one overlapping the replaced span goes stale and Render drops
// it.
//
// chosen is matched against pending by span only. If it is not pending the
// call is a no-op. If it no longer fits text it is dropped from the pending
// set and text is left alone.
func Apply(text string, chosen model.Correction, pending []model.Correction) ApplyResult {
	idx := -1
	for i, p := range pending {
		if p.StartIndex == chosen.StartIndex && p.EndIndex == chosen.EndIndex {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ApplyResult{Text: text, Remaining: clone(pending)}
	}
	c := pending[idx]
	c.Suggestion = chosen.Suggestion

	runes := []rune(text)
	if c.StartIndex < 0 || c.EndIndex > len(runes) || c.StartIndex >= c.EndIndex ||
		util.Slice(runes, c.StartIndex, c.EndIndex) != c.Original {
		return ApplyResult{
			Text:      text,
			Remaining: without(pending, idx),
			Message:   fmt.Sprintf("%q no longer matches the text", c.Original),
		}
	}

	repl := []rune(c.Suggestion)
	out := make([]rune, 0, len(runes)-(c.EndIndex-c.StartIndex)+len(repl))
	out = append(out, runes[:c.StartIndex]...)
	out = append(out, repl...)
	out = append(out, runes[c.EndIndex:]...)

	delta := len(repl) - (c.EndIndex - c.StartIndex)
	remaining := make([]model.Correction, 0, len(pending)-1)
	for i, p := range pending {
		if i == idx {
			continue
		}
		if p.StartIndex >= c.EndIndex {
			p.StartIndex += delta
			p.EndIndex += delta
		}
		remaining = append(remaining, p)
	}

	return ApplyResult{
		Text:      string(out),
		Remaining: remaining,
		Applied:   true,
		Message:   fmt.Sprintf("Changed %q to %q", c.Original, c.Suggestion),
	}
}

// ApplyAll swaps in the provider's fully corrected text and clears the
// pending set. Called again with nothing pending it changes nothing.
func ApplyAll(correctedText string, pending []model.Correction) ApplyResult {
	n := len(pending)
	res := ApplyResult{Text: correctedText, Remaining: []model.Correction{}, Applied: n > 0}
	switch n {
	case 0:
		res.Message = "No corrections to apply"
	case 1:
		res.Message = "1 correction applied"
	default:
		res.Message = fmt.Sprintf("%d corrections applied", n)
	}
	return res
}

func clone(cs []model.Correction) []model.Correction {
	out := make([]model.Correction, len(cs))
	copy(out, cs)
	return out
}

func without(cs []model.Correction, idx int) []model.Correction {
	out := make([]model.Correction, 0, len(cs)-1)
	out = append(out, cs[:idx]...)
	return append(out, cs[idx+1:]...)
}

// applySpans rewrites text with every correction that still fits. Render
// does the right-to-left carving, so skipped spans never shift the others.
func applySpans(text string, cs []model.Correction) string {
	if len(cs) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, seg := range Render(text, cs) {
		if seg.Kind == model.SegmentHighlighted {
			b.WriteString(seg.Correction.Suggestion)
			continue
		}
		b.WriteString(seg.Content)
	}
	return b.String()
}
