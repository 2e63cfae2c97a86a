package spellfix

import (
	"sort"

	"github.com/Alfex4936/spellfix/internal/model"
	"github.com/Alfex4936/spellfix/internal/util"
)

// Validate turns provider corrections for text into a usable set: in bounds,
// non-empty, actually changing something, pairwise disjoint and sorted by
// position. Distance is recomputed.
//
// Models often miscount offsets. A correction whose span is in bounds but
// does not hold its Original is moved to the nearest exact occurrence of
// Original, or dropped when there is none. A missing Original is taken from
// the text. When two corrections overlap the earlier one in input order wins.
func Validate(text string, corrections []model.Correction) []model.Correction {
	runes := []rune(text)
	n := len(runes)

	kept := make([]model.Correction, 0, len(corrections))
	for _, c := range corrections {
		if c.StartIndex < 0 || c.EndIndex > n || c.StartIndex >= c.EndIndex {
			continue
		}
		under := util.Slice(runes, c.StartIndex, c.EndIndex)
		if c.Original == "" {
			c.Original = under
		}
		if c.Suggestion == c.Original {
			continue
		}
		if under != c.Original {
			at, ok := nearest(runes, []rune(c.Original), c.StartIndex)
			if !ok {
				continue
			}
			c.EndIndex = at + util.RuneLen(c.Original)
			c.StartIndex = at
		}
		if collides(kept, c.Key()) {
			continue
		}
		c.Distance = util.Levenshtein(c.Original, c.Suggestion)
		kept = append(kept, c)
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].StartIndex < kept[j].StartIndex })
	return kept
}

// collides covers duplicates too: an identical span overlaps itself.
func collides(kept []model.Correction, s model.Span) bool {
	for _, k := range kept {
		if k.Key().Overlaps(s) {
			return true
		}
	}
	return false
}

// nearest finds the occurrence of needle in hay whose start is closest to
// near. Ties go to the earlier one.
func nearest(hay, needle []rune, near int) (int, bool) {
	if len(needle) == 0 || len(needle) > len(hay) {
		return 0, false
	}
	best, bestDist := -1, 0
	for i := 0; i+len(needle) <= len(hay); i++ {
		if !hasPrefix(hay[i:], needle) {
			continue
		}
		d := i - near
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

func hasPrefix(s, prefix []rune) bool {
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}
