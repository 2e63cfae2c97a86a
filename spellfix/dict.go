package spellfix

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Alfex4936/spellfix/internal/model"
	"github.com/Alfex4936/spellfix/internal/util"
)

// Dict is a user dictionary for protecting specific terms from correction.
type Dict struct {
	Words []string `json:"words"`
}

// NewDict creates a Dict from the given words.
func NewDict(words ...string) *Dict {
	return &Dict{Words: words}
}

// LoadDict reads a JSON file of the form {"words": ["Kubernetes", ...]}.
func LoadDict(path string) (*Dict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Dict
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Merge returns a dict holding the words of both, either may be nil.
func (d *Dict) Merge(o *Dict) *Dict {
	out := &Dict{}
	if d != nil {
		out.Words = append(out.Words, d.Words...)
	}
	if o != nil {
		out.Words = append(out.Words, o.Words...)
	}
	return out
}

// normalized trims words and drops blanks and duplicates.
func (d *Dict) normalized() []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(d.Words))
	out := make([]string, 0, len(d.Words))
	for _, w := range d.Words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// filterByDict keeps corrections that leave protected words intact. A
// suggestion that only splits a protected word with spaces is rewritten to
// the canonical spelling and kept.
func filterByDict(cs []model.Correction, words []string) []model.Correction {
	if len(words) == 0 {
		return cs
	}
	kept := cs[:0]
	for i := range cs {
		if keepCorrectionForDict(&cs[i], words) {
			kept = append(kept, cs[i])
		}
	}
	return kept
}

func keepCorrectionForDict(c *model.Correction, words []string) bool {
	originNoSpace := stripSpaces(c.Original)
	relevant := make([]string, 0, len(words))
	for _, w := range words {
		if strings.Contains(c.Original, w) || strings.Contains(originNoSpace, stripSpaces(w)) {
			relevant = append(relevant, w)
		}
	}
	if len(relevant) == 0 {
		return true
	}

	fixed := c.Suggestion
	for _, w := range relevant {
		fixed = collapseSpacesWithinWord(fixed, w)
	}
	for _, w := range relevant {
		if !strings.Contains(fixed, w) {
			return false
		}
	}
	if fixed == c.Original {
		return false
	}
	if fixed != c.Suggestion {
		c.Suggestion = fixed
		c.Distance = util.Levenshtein(c.Original, fixed)
	}
	return true
}

// collapseSpacesWithinWord replaces occurrences of word with arbitrary
// whitespace between (or missing from) its letters by word itself. Matches
// inside a longer word are left alone.
func collapseSpacesWithinWord(s, word string) string {
	letters := []rune(stripSpaces(word))
	if len(letters) < 2 {
		return s
	}

	var b strings.Builder
	for i, r := range letters {
		b.WriteString(regexp.QuoteMeta(string(r)))
		if i != len(letters)-1 {
			b.WriteString(`\s*`)
		}
	}
	re := regexp.MustCompile(b.String())

	var out strings.Builder
	prev := 0
	for _, m := range re.FindAllStringIndex(s, -1) {
		if !atWordBoundary(s, m[0], m[1]) {
			continue
		}
		out.WriteString(s[prev:m[0]])
		out.WriteString(word)
		prev = m[1]
	}
	if prev == 0 {
		return s
	}
	out.WriteString(s[prev:])
	return out.String()
}

// atWordBoundary reports whether s[start:end] is not glued to a letter or
// digit on either side.
func atWordBoundary(s string, start, end int) bool {
	if r, _ := utf8.DecodeLastRuneInString(s[:start]); start > 0 && isWordRune(r) {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(s[end:]); end < len(s) && isWordRune(r) {
		return false
	}
	return true
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
