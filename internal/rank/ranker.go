// Package rank shrinks noisy extracted text down to the lines most likely to
// describe cleaning/maintenance work, before the expensive structured
// extraction step. Ranking decides inclusion only; output keeps original
// document order.
package rank

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

// MaxLines is how many units survive ranking.
const MaxLines = 30

const (
	structuralBonus = 5.0
	verbBonus       = 3.0
)

// Domain vocabulary for the TF-IDF weighting. Verbs and nouns that show up in
// cleaning/maintenance documents.
var vocabulary = []string{
	"clean", "wipe", "dust", "vacuum", "mop", "sanitize", "disinfect",
	"polish", "scrub", "sweep", "wash", "empty", "inspect", "check",
	"replace", "maintain", "service",
	"floor", "carpet", "window", "radiator", "sink", "toilet", "bathroom",
	"kitchen", "surface", "bin", "trash", "mirror", "door", "wall",
	"equipment", "filter", "vent", "hallway", "room", "area",
	"frequency", "task", "schedule", "checklist",
}

// Core cleaning verbs earn the extra flat bonus.
var cleaningVerbs = []string{
	"clean", "wipe", "dust", "vacuum", "mop", "sanitize", "disinfect",
	"polish", "scrub", "sweep", "wash",
}

var frequencyWords = []string{"daily", "weekly", "monthly", "quarterly", "annually"}

var fieldLabels = []string{"area:", "room:", "date:", "type:"}

var (
	reBulletPrefix  = regexp.MustCompile(`^\s*(?:[•\-*–]+|\d+[.)])\s+`)
	reFrequencyAnno = regexp.MustCompile(`(?i)\(\s*frequency\s*:\s*([^)]+?)\s*\)`)
	reSentenceSplit = regexp.MustCompile(`(?m)[.!?]\s+`)
	reWord          = regexp.MustCompile(`[a-z]+`)
)

// Rank scores and filters the units of text, keeping the top MaxLines by score
// and returning them in original document order. Pure function: same input,
// byte-identical output.
func Rank(text string) entity.RankedContent {
	units := splitUnits(text)
	if len(units) == 0 {
		return entity.RankedContent{}
	}

	// Per-unit token counts and document frequencies across the batch,
	// treating each unit as a one-unit document.
	counts := make([]map[string]int, len(units))
	df := make(map[string]int)
	for i, u := range units {
		c := tokenCounts(u)
		counts[i] = c
		for _, term := range vocabulary {
			if c[term] > 0 {
				df[term]++
			}
		}
	}

	n := float64(len(units))
	lines := make([]entity.RankedLine, len(units))
	for i, u := range units {
		var score float64
		for _, term := range vocabulary {
			tf := counts[i][term]
			if tf == 0 {
				continue
			}
			idf := math.Log(n/float64(1+df[term])) + 1
			score += float64(tf) * idf
		}
		if isStructural(u) {
			score += structuralBonus
		}
		if hasCleaningVerb(counts[i]) {
			score += verbBonus
		}
		lines[i] = entity.RankedLine{Text: u, Score: score, Position: i}
	}

	// Stable sort by score keeps first-seen order for ties.
	selected := make([]entity.RankedLine, len(lines))
	copy(selected, lines)
	sort.SliceStable(selected, func(a, b int) bool {
		return selected[a].Score > selected[b].Score
	})
	if len(selected) > MaxLines {
		selected = selected[:MaxLines]
	}

	// Ranking determines inclusion, not order: restore document order so the
	// downstream extractor sees the document's logical structure.
	sort.Slice(selected, func(a, b int) bool {
		return selected[a].Position < selected[b].Position
	})

	return entity.RankedContent{Lines: selected}
}

// splitUnits breaks text into sentence-like units, normalizing bullet markers
// to a single "- " prefix and frequency annotations to "(Frequency: X)".
func splitUnits(text string) []string {
	var units []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if reBulletPrefix.MatchString(line) {
			units = append(units, normalizeUnit("- "+reBulletPrefix.ReplaceAllString(line, "")))
			continue
		}
		// Non-bullet prose may hold several sentences on one line.
		for _, s := range reSentenceSplit.Split(line, -1) {
			s = strings.TrimSpace(s)
			if s != "" {
				units = append(units, normalizeUnit(s))
			}
		}
	}
	return units
}

func normalizeUnit(u string) string {
	return reFrequencyAnno.ReplaceAllString(u, "(Frequency: $1)")
}

func tokenCounts(u string) map[string]int {
	counts := make(map[string]int)
	for _, w := range reWord.FindAllString(strings.ToLower(u), -1) {
		counts[w]++
	}
	return counts
}

func isStructural(u string) bool {
	lower := strings.ToLower(u)
	if strings.Contains(lower, "task") || strings.Contains(lower, "checklist") || strings.Contains(lower, "schedule") {
		return true
	}
	for _, label := range fieldLabels {
		if strings.HasPrefix(lower, label) {
			return true
		}
	}
	if strings.Contains(lower, "(frequency:") {
		return true
	}
	if strings.HasPrefix(u, "- ") {
		return true
	}
	for _, fw := range frequencyWords {
		if strings.Contains(lower, fw) {
			return true
		}
	}
	return false
}

func hasCleaningVerb(counts map[string]int) bool {
	for _, v := range cleaningVerbs {
		if counts[v] > 0 {
			return true
		}
	}
	return false
}
