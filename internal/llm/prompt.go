package llm

import (
	"encoding/json"
	"strings"

	"github.com/Alfex4936/spellfix/internal/parse"
)

const systemPrompt = `You are a grammar and spelling correction assistant.
Analyze the text you are given and respond with a JSON object containing:
1. correctedText: the full text with all errors fixed
2. corrections: an array of objects with these properties:
   - original: the incorrect word or phrase, copied exactly from the text
   - suggestion: the corrected word or phrase
   - startIndex: the character index where the error starts (0-based)
   - endIndex: the character index just past the end of the error
   - explanation: a brief explanation of the error

Only include actual mistakes, not stylistic suggestions.
Corrections must not overlap.
Words listed as protected are correct and must never be flagged.
Return ONLY the JSON object, no additional text.`

// BuildPrompt renders the user turn for text.
func BuildPrompt(text string, protected []string) string {
	var b strings.Builder
	if len(protected) > 0 {
		words, _ := json.Marshal(protected)
		b.WriteString("Protected words: ")
		b.Write(words)
		b.WriteString("\n\n")
	}
	b.WriteString("Text to analyze:\n")
	b.WriteString(text)
	return b.String()
}

// decodeReply turns raw model content into a Response.
func decodeReply(provider, content string) (*Response, error) {
	reply, err := parse.Decode(content)
	if err != nil {
		return nil, &ProviderError{Kind: KindMalformed, Provider: provider, Err: err}
	}
	return &Response{CorrectedText: reply.CorrectedText, Corrections: reply.Corrections}, nil
}
