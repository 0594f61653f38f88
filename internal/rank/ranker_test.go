package rank

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankKeepsDocumentOrder(t *testing.T) {
	doc := strings.Join([]string{
		"Housekeeping Schedule",
		"- Mop the kitchen floor",
		"Meeting minutes from last Tuesday about parking.",
		"- Disinfect all bathroom surfaces (Frequency: daily)",
		"- Empty the bins weekly",
	}, "\n")

	got := Rank(doc)
	require.NotEmpty(t, got.Lines)

	for i := 1; i < len(got.Lines); i++ {
		assert.Greater(t, got.Lines[i].Position, got.Lines[i-1].Position,
			"output must stay in document order")
	}
}

func TestRankIsPure(t *testing.T) {
	doc := "- Vacuum carpets daily\n- Wipe down all surfaces\nSome unrelated prose."
	first := Rank(doc)
	second := Rank(doc)
	assert.Equal(t, first, second)
}

func TestRankCapsAtMaxLines(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&sb, "- Clean area %d thoroughly\n", i)
	}
	got := Rank(sb.String())
	assert.Len(t, got.Lines, MaxLines)
}

func TestRankPrefersTaskLinesOverFiller(t *testing.T) {
	var sb strings.Builder
	// 40 lines of filler prose crowd the real tasks past the cap unless
	// scoring works.
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "Paragraph %d talks about invoices and staffing budgets.\n", i)
	}
	sb.WriteString("- Mop and sanitize the kitchen floor (Frequency: daily)\n")
	sb.WriteString("- Dust the radiators in every room\n")

	got := Rank(sb.String())
	require.Len(t, got.Lines, MaxLines)

	text := got.Text()
	assert.Contains(t, text, "Mop and sanitize the kitchen floor")
	assert.Contains(t, text, "Dust the radiators in every room")
}

func TestRankNormalizesBulletsAndFrequency(t *testing.T) {
	got := Rank("• Scrub the sinks (frequency: WEEKLY)\n3) Polish mirrors")
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "- Scrub the sinks (Frequency: WEEKLY)", got.Lines[0].Text)
	assert.Equal(t, "- Polish mirrors", got.Lines[1].Text)
}

func TestRankEmptyInput(t *testing.T) {
	assert.Empty(t, Rank("").Lines)
	assert.Empty(t, Rank("\n   \n").Lines)
}

func TestRankSplitsProseIntoSentences(t *testing.T) {
	got := Rank("Clean the windows weekly. Check the air filters monthly. Unrelated filler here.")
	require.GreaterOrEqual(t, len(got.Lines), 2)
	assert.Contains(t, got.Text(), "Clean the windows weekly")
	assert.Contains(t, got.Text(), "Check the air filters monthly")
}
