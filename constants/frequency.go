package constants

import (
	"strings"
)

// Frequency is the canonical recurrence interval for an assignment.
type Frequency string

const (
	Daily     Frequency = "DAILY"
	Weekly    Frequency = "WEEKLY"
	Biweekly  Frequency = "BIWEEKLY"
	Monthly   Frequency = "MONTHLY"
	Quarterly Frequency = "QUARTERLY"
	Yearly    Frequency = "YEARLY"
)

var allFrequencies = []Frequency{
	Daily,
	Weekly,
	Biweekly,
	Monthly,
	Quarterly,
	Yearly,
}

func FrequenciesAsStringSlice() []string {
	result := make([]string, len(allFrequencies))
	for i, f := range allFrequencies {
		result[i] = string(f)
	}
	return result
}

func (f Frequency) Valid() bool {
	for _, known := range allFrequencies {
		if f == known {
			return true
		}
	}
	return false
}

// CanonicalFrequency maps a free-text frequency phrase (as detected in a source
// document or returned by the model) onto the canonical enum.
func CanonicalFrequency(input string) (Frequency, bool) {
	if input == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Frequency{
		"daily":           Daily,
		"every day":       Daily,
		"each day":        Daily,
		"once a day":      Daily,
		"weekly":          Weekly,
		"every week":      Weekly,
		"once a week":     Weekly,
		"biweekly":        Biweekly,
		"bi-weekly":       Biweekly,
		"fortnightly":     Biweekly,
		"every two weeks": Biweekly,
		"every 2 weeks":   Biweekly,
		"monthly":         Monthly,
		"every month":     Monthly,
		"once a month":    Monthly,
		"quarterly":       Quarterly,
		"every quarter":   Quarterly,
		"every 3 months":  Quarterly,
		"yearly":          Yearly,
		"annually":        Yearly,
		"annual":          Yearly,
		"every year":      Yearly,
	}

	if f, ok := synonyms[normalized]; ok {
		return f, true
	}

	// check if it matches a canonical value directly
	for _, f := range allFrequencies {
		if normalized == strings.ToLower(string(f)) {
			return f, true
		}
	}

	return "", false
}
