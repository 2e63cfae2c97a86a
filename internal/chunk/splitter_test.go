package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_ShortTextIsOneChunk(t *testing.T) {
	got := Split("hello world", 100, 10)
	require.Len(t, got, 1)
	assert.Equal(t, Chunk{Index: 0, Offset: 0, Text: "hello world"}, got[0])
}

func TestSplit_PacksParagraphsUnderCap(t *testing.T) {
	text := "aaaa\n\nbbbb\n\ncccc\n\ndddd"
	got := Split(text, 5, 10)

	require.Len(t, got, 2)
	assert.Equal(t, "aaaa\n\nbbbb", got[0].Text)
	assert.Equal(t, 0, got[0].Offset)
	assert.Equal(t, "cccc\n\ndddd", got[1].Text)
	assert.Equal(t, 12, got[1].Offset)
}

func TestSplit_OffsetsPointIntoDocument(t *testing.T) {
	text := "첫 문단입니다.\n \n둘째 문단.\n\n\n셋째 문단은 조금 더 깁니다."
	runes := []rune(text)
	for _, c := range Split(text, 5, 12) {
		assert.Equal(t, c.Text, string(runes[c.Offset:c.End()]))
	}
}

func TestSplit_LongParagraphCutAtWords(t *testing.T) {
	text := strings.Repeat("word ", 20)
	got := Split(text, 10, 12)
	require.Greater(t, len(got), 1)
	for _, c := range got {
		assert.LessOrEqual(t, len([]rune(c.Text)), 12)
	}
	assert.Equal(t, text, Merge(text, got, texts(got)))
}

func TestSplit_SingleNewlineDoesNotSplit(t *testing.T) {
	text := "line one\nline two\nline three"
	got := Split(text, 5, 100)
	require.Len(t, got, 1)
	assert.Equal(t, text, got[0].Text)
}

func TestMerge_RestoresSeparators(t *testing.T) {
	text := "  lead\n\nmid\n\n\ntail  \n\n"
	chunks := Split(text, 1, 4)
	repl := make([]string, len(chunks))
	for i, c := range chunks {
		repl[i] = strings.ToUpper(c.Text)
	}
	assert.Equal(t, strings.ToUpper(text), Merge(text, chunks, repl))
}

func texts(cs []Chunk) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Text
	}
	return out
}
