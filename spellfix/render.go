package spellfix

import (
	"sort"

	"github.com/Alfex4936/spellfix/internal/model"
)

// Render splits text into plain and highlighted segments, one highlighted
// segment per usable correction. Concatenating the segment contents always
// gives back text.
//
// Corrections are carved right to left. One that is out of bounds, empty,
// overlaps a span already carved or no longer matches the text under it is
// skipped; the rest are unaffected.
func Render(text string, corrections []model.Correction) []model.Segment {
	runes := []rune(text)
	n := len(runes)

	sorted := make([]model.Correction, len(corrections))
	copy(sorted, corrections)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].StartIndex != sorted[j].StartIndex {
			return sorted[i].StartIndex > sorted[j].StartIndex
		}
		return sorted[i].EndIndex < sorted[j].EndIndex
	})

	// built back to front, reversed at the end
	segs := make([]model.Segment, 0, 2*len(sorted)+1)
	cursor := n
	for i := range sorted {
		c := sorted[i]
		if c.StartIndex < 0 || c.EndIndex > n || c.StartIndex >= c.EndIndex {
			continue
		}
		if c.EndIndex > cursor {
			continue
		}
		under := string(runes[c.StartIndex:c.EndIndex])
		if under != c.Original {
			continue
		}
		if c.EndIndex < cursor {
			segs = append(segs, plain(runes, c.EndIndex, cursor))
		}
		segs = append(segs, model.Segment{
			Kind:       model.SegmentHighlighted,
			Content:    under,
			StartIndex: c.StartIndex,
			EndIndex:   c.EndIndex,
			Correction: &c,
		})
		cursor = c.StartIndex
	}
	if cursor > 0 || len(segs) == 0 {
		segs = append(segs, plain(runes, 0, cursor))
	}

	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return segs
}

func plain(runes []rune, start, end int) model.Segment {
	return model.Segment{
		Kind:       model.SegmentPlain,
		Content:    string(runes[start:end]),
		StartIndex: start,
		EndIndex:   end,
	}
}

// Lookup finds the correction with exactly this span.
func Lookup(corrections []model.Correction, start, end int) (model.Correction, bool) {
	for _, c := range corrections {
		if c.StartIndex == start && c.EndIndex == end {
			return c, true
		}
	}
	return model.Correction{}, false
}

// Highlighted returns only the highlighted segments' corrections, in text
// order.
func Highlighted(segs []model.Segment) []model.Correction {
	out := make([]model.Correction, 0, len(segs))
	for _, s := range segs {
		if s.Kind == model.SegmentHighlighted && s.Correction != nil {
			out = append(out, *s.Correction)
		}
	}
	return out
}
