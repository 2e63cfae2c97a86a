package spellfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alfex4936/spellfix/internal/model"
)

func TestValidateDrops(t *testing.T) {
	in := []model.Correction{
		{Original: "x", Suggestion: "y", StartIndex: 10, EndIndex: 20},
		{Original: "", Suggestion: "y", StartIndex: 3, EndIndex: 3},
		{Original: "has", Suggestion: "has", StartIndex: 2, EndIndex: 5},
		{Original: "pear", Suggestion: "pears", StartIndex: 0, EndIndex: 4},
	}
	assert.Empty(t, Validate(apple, in))
}

func TestValidateKeepsAndSorts(t *testing.T) {
	got := Validate(apple, []model.Correction{appleFix, hasFix})
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].StartIndex)
	assert.Equal(t, 2, got[0].Distance)
	assert.Equal(t, 1, got[1].Distance)
}

func TestValidateOverlapKeepsEarlier(t *testing.T) {
	wide := model.Correction{Original: "has a", Suggestion: "have an", StartIndex: 2, EndIndex: 7}
	got := Validate(apple, []model.Correction{hasFix, wide, hasFix})
	require.Len(t, got, 1)
	assert.Equal(t, hasFix.Key(), got[0].Key())
}

func TestValidateReanchors(t *testing.T) {
	shifted := model.Correction{Original: "has", Suggestion: "have", StartIndex: 0, EndIndex: 3}
	got := Validate(apple, []model.Correction{shifted})
	require.Len(t, got, 1)
	assert.Equal(t, model.Span{Start: 2, End: 5}, got[0].Key())
}

func TestValidateReanchorsToNearest(t *testing.T) {
	text := "a cat and a dog"
	c := model.Correction{Original: "a", Suggestion: "one", StartIndex: 9, EndIndex: 10}
	got := Validate(text, []model.Correction{c})
	require.Len(t, got, 1)
	assert.Equal(t, 10, got[0].StartIndex)
}

func TestValidateFillsOriginal(t *testing.T) {
	got := Validate(apple, []model.Correction{{Suggestion: "have", StartIndex: 2, EndIndex: 5}})
	require.Len(t, got, 1)
	assert.Equal(t, "has", got[0].Original)
}

func TestValidateDisjoint(t *testing.T) {
	text := "teh teh teh"
	var in []model.Correction
	for s := 0; s < 11; s++ {
		for e := s + 1; e <= 11; e++ {
			in = append(in, model.Correction{Suggestion: "the", StartIndex: s, EndIndex: e})
		}
	}
	got := Validate(text, in)
	for i := range got {
		for j := i + 1; j < len(got); j++ {
			assert.False(t, got[i].Key().Overlaps(got[j].Key()), "%v overlaps %v", got[i], got[j])
		}
	}
	assert.Equal(t, text, concat(Render(text, got)))
}
