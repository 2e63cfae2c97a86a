package fallback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alfex4936/spellfix/internal/llm"
)

func TestCheck(t *testing.T) {
	tbl := New(nil)
	got := tbl.Check("I recieve teh mail untill noon.")

	require.Len(t, got, 3)
	assert.Equal(t, "receive", got[0].Suggestion)
	assert.Equal(t, 2, got[0].StartIndex)
	assert.Equal(t, 9, got[0].EndIndex)
	assert.Equal(t, "the", got[1].Suggestion)
	assert.Equal(t, 1, got[2].Distance)
}

func TestCheckPreservesCase(t *testing.T) {
	got := New(nil).Check("Teh end. WIERD.")
	require.Len(t, got, 2)
	assert.Equal(t, "The", got[0].Suggestion)
	assert.Equal(t, "WEIRD", got[1].Suggestion)
}

func TestMatchCase(t *testing.T) {
	assert.Equal(t, "The", matchCase("Teh", "the"))
	assert.Equal(t, "THE", matchCase("TEH", "the"))
	assert.Equal(t, "the", matchCase("teh", "the"))
	assert.Equal(t, "", matchCase("Um", ""))
	assert.Equal(t, "", matchCase("UM", ""))
}

func TestCheckRuneOffsets(t *testing.T) {
	got := New(nil).Check("café teh")
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].StartIndex)
	assert.Equal(t, 8, got[0].EndIndex)
}

func TestCheckNothing(t *testing.T) {
	got := New(nil).Check("All good here.")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCorrectAsProvider(t *testing.T) {
	var p llm.Provider = New(map[string]string{"alot": "a lot"})
	resp, err := p.Correct(context.Background(), "Thanks alot, thier help", llm.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Thanks a lot, thier help", resp.CorrectedText)
	assert.Len(t, resp.Corrections, 1)
}
