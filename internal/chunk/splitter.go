// Package chunk cuts long documents into paragraph-aligned pieces that are
// checked independently and stitched back together by rune offset.
package chunk

import (
	"strings"
	"unicode"
)

// Chunk is one provider request. Offset is the rune offset of Text in the
// document it was cut from.
type Chunk struct {
	Index  int    `json:"idx"`
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

// End is the rune offset just past the chunk.
func (c Chunk) End() int { return c.Offset + len([]rune(c.Text)) }

type span struct{ start, end int }

// Split returns text as a single chunk when it has at most threshold runes
// (or threshold <= 0). Longer text is split on blank lines and the paragraphs
// are packed greedily into chunks of at most maxRunes runes. A paragraph
// longer than maxRunes is cut at word boundaries.
//
// Separators between chunks belong to no chunk; Merge restores them.
func Split(text string, threshold, maxRunes int) []Chunk {
	runes := []rune(text)
	if threshold <= 0 || len(runes) <= threshold || maxRunes <= 0 {
		return []Chunk{{Index: 0, Offset: 0, Text: text}}
	}

	var pieces []span
	for _, p := range paragraphs(runes) {
		if p.end-p.start > maxRunes {
			pieces = append(pieces, splitWords(runes, p, maxRunes)...)
			continue
		}
		pieces = append(pieces, p)
	}
	if len(pieces) == 0 {
		return []Chunk{{Index: 0, Offset: 0, Text: text}}
	}

	out := make([]Chunk, 0, len(runes)/maxRunes+1)
	cur := pieces[0]
	emit := func(s span) {
		out = append(out, Chunk{Index: len(out), Offset: s.start, Text: string(runes[s.start:s.end])})
	}
	for _, p := range pieces[1:] {
		if p.end-cur.start <= maxRunes {
			cur.end = p.end
			continue
		}
		emit(cur)
		cur = p
	}
	emit(cur)
	return out
}

// Merge rebuilds a full document from per-chunk replacements, copying the
// original text between chunks verbatim. len(replaced) must equal len(chunks).
func Merge(text string, chunks []Chunk, replaced []string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for i, c := range chunks {
		b.WriteString(string(runes[prev:c.Offset]))
		b.WriteString(replaced[i])
		prev = c.End()
	}
	b.WriteString(string(runes[prev:]))
	return b.String()
}

// paragraphs finds runs of text separated by at least one blank line.
func paragraphs(r []rune) []span {
	var out []span
	start, i := 0, 0
	for i < len(r) {
		if r[i] != '\n' {
			i++
			continue
		}
		j := i + 1
		for j < len(r) && (r[j] == ' ' || r[j] == '\t' || r[j] == '\r') {
			j++
		}
		if j >= len(r) || r[j] != '\n' {
			i = j
			continue
		}
		k := j + 1
		for k < len(r) && unicode.IsSpace(r[k]) {
			k++
		}
		if i > start {
			out = append(out, span{start, i})
		}
		start, i = k, k
	}
	if start < len(r) {
		out = append(out, span{start, len(r)})
	}
	return out
}

// splitWords cuts p into contiguous pieces of at most max runes, preferring
// to cut right after whitespace.
func splitWords(r []rune, p span, max int) []span {
	var out []span
	s := p.start
	for p.end-s > max {
		cut := s + max
		for k := cut; k > s; k-- {
			if unicode.IsSpace(r[k-1]) {
				cut = k
				break
			}
		}
		out = append(out, span{s, cut})
		s = cut
	}
	if s < p.end {
		out = append(out, span{s, p.end})
	}
	return out
}
