// Package fallback is the offline typo table used when no provider answer is
// available for a chunk.
package fallback

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Alfex4936/spellfix/internal/llm"
	"github.com/Alfex4936/spellfix/internal/model"
	"github.com/Alfex4936/spellfix/internal/util"
)

// Common holds frequent English misspellings, lower-case.
var Common = map[string]string{
	"teh":        "the",
	"recieve":    "receive",
	"definately": "definitely",
	"seperate":   "separate",
	"occured":    "occurred",
	"untill":     "until",
	"wich":       "which",
	"alot":       "a lot",
	"thier":      "their",
	"becuase":    "because",
	"accomodate": "accommodate",
	"goverment":  "government",
	"tommorow":   "tomorrow",
	"beleive":    "believe",
	"wierd":      "weird",
}

const explanation = "Common misspelling"

// Table flags whole words found in a fixed misspelling map.
type Table struct {
	words map[string]string
}

// New copies words, keyed case-insensitively. A nil map means Common.
func New(words map[string]string) *Table {
	if words == nil {
		words = Common
	}
	t := &Table{words: make(map[string]string, len(words))}
	for k, v := range words {
		t.words[strings.ToLower(k)] = v
	}
	return t
}

// Check returns one correction per known misspelling, in text order.
// Offsets are rune offsets into text.
func (t *Table) Check(text string) []model.Correction {
	out := []model.Correction{}
	for _, tok := range tokenize(text) {
		fix, ok := t.words[strings.ToLower(tok.word)]
		if !ok {
			continue
		}
		fix = matchCase(tok.word, fix)
		if fix == tok.word {
			continue
		}
		out = append(out, model.Correction{
			Original:    tok.word,
			Suggestion:  fix,
			StartIndex:  tok.start,
			EndIndex:    tok.end,
			Explanation: explanation,
			Distance:    util.Levenshtein(tok.word, fix),
		})
	}
	return out
}

func (t *Table) Name() string { return "fallback" }

// Correct lets the table stand in for a hosted provider.
func (t *Table) Correct(_ context.Context, text string, _ llm.Options) (*llm.Response, error) {
	cs := t.Check(text)
	return &llm.Response{CorrectedText: apply(text, cs), Corrections: cs}, nil
}

// apply rewrites text with disjoint, ascending corrections.
func apply(text string, cs []model.Correction) string {
	if len(cs) == 0 {
		return text
	}
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	at := 0
	for _, c := range cs {
		b.WriteString(string(runes[at:c.StartIndex]))
		b.WriteString(c.Suggestion)
		at = c.EndIndex
	}
	b.WriteString(string(runes[at:]))
	return b.String()
}

// matchCase carries "Teh" -> "The" and "TEH" -> "THE".
func matchCase(orig, fix string) string {
	if fix == "" {
		return fix
	}
	if isUpper(orig) && utf8.RuneCountInString(orig) > 1 {
		return strings.ToUpper(fix)
	}
	first, _ := utf8.DecodeRuneInString(orig)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(fix)
		return string(unicode.ToUpper(r)) + fix[size:]
	}
	return fix
}

func isUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// wordToken is a word with its rune offsets in the original text.
type wordToken struct {
	word  string
	start int // inclusive rune offset
	end   int // exclusive rune offset
}

// tokenize splits text into letter runs, tracking rune offsets.
func tokenize(text string) []wordToken {
	runes := []rune(text)
	var tokens []wordToken
	i := 0
	for i < len(runes) {
		if !isWordChar(runes[i]) {
			i++
			continue
		}
		start := i
		for i < len(runes) && isWordChar(runes[i]) {
			i++
		}
		tokens = append(tokens, wordToken{
			word:  string(runes[start:i]),
			start: start,
			end:   i,
		})
	}
	return tokens
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\''
}
