package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alfex4936/spellfix/internal/model"
)

func TestReport(t *testing.T) {
	res := &model.Result{
		Original:      "I has a apple.",
		CorrectedText: "I have an apple.",
		CharCount:     14,
		ChunkCount:    1,
		ErrorCount:    2,
		EditDistance:  3,
		Corrections: []model.Correction{
			{Original: "has", Suggestion: "have", StartIndex: 2, EndIndex: 5, Explanation: "agreement"},
			{Original: "a apple", Suggestion: "an apple", StartIndex: 6, EndIndex: 13},
		},
	}
	out := report(res)

	assert.Contains(t, out, "has")
	assert.Contains(t, out, "have")
	assert.Contains(t, out, "agreement")
	assert.Contains(t, out, " 2. ")
	assert.Contains(t, out, "edit distance 3")
	assert.NotContains(t, out, "No mistakes found.")
}

func TestReportDegraded(t *testing.T) {
	res := &model.Result{
		Original:    "fine text",
		Corrections: []model.Correction{},
		Degraded:    true,
		Failure:     &model.Failure{Kind: "unavailable", Message: "service down"},
	}
	out := report(res)
	assert.Contains(t, out, "No mistakes found.")
	assert.Contains(t, out, "service down")
}

func TestCheckCommandWithFallbackProvider(t *testing.T) {
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader("Teh cat will recieve it."))
	rootCmd.SetArgs([]string{"check", "--provider", "fallback", "--apply-all"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "The cat will receive it.", out.String())
}
