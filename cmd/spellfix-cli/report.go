package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Alfex4936/spellfix/internal/model"
	"github.com/Alfex4936/spellfix/spellfix"
)

var (
	markStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Underline(true)
	suggestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// report renders the checked text with highlighted spans, then one line per
// correction, numbered in text order.
func report(res *model.Result) string {
	var b strings.Builder

	segs := spellfix.Render(res.Original, res.Corrections)
	for _, seg := range segs {
		if seg.Kind == model.SegmentHighlighted {
			b.WriteString(markStyle.Render(seg.Content))
			continue
		}
		b.WriteString(seg.Content)
	}
	if !strings.HasSuffix(res.Original, "\n") {
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	shown := spellfix.Highlighted(segs)
	if len(shown) == 0 {
		b.WriteString(dimStyle.Render("No mistakes found."))
		b.WriteByte('\n')
	}
	for i, c := range shown {
		fmt.Fprintf(&b, "%2d. %s → %s", i+1, markStyle.Render(c.Original), suggestStyle.Render(c.Suggestion))
		if c.Explanation != "" {
			b.WriteString(dimStyle.Render("  " + c.Explanation))
		}
		b.WriteByte('\n')
	}

	if res.Degraded && res.Failure != nil {
		b.WriteByte('\n')
		b.WriteString(warnStyle.Render("! " + res.Failure.Message))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%s\n", dimStyle.Render(fmt.Sprintf(
		"%d characters, %d chunk(s), %d correction(s), edit distance %d",
		res.CharCount, res.ChunkCount, res.ErrorCount, res.EditDistance)))
	return b.String()
}
