package assignment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

const defaultTaskMinutes = 5

var (
	reHours   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h)\b`)
	reMinutes = regexp.MustCompile(`(?i)(\d+)\s*(?:minutes?|mins?|m)\b`)
)

// ParseDurationMinutes reads free-text durations like "30 minutes",
// "1.5 hours" or "2h 15m". Unparseable text falls back to the per-task
// default so estimates stay additive.
func ParseDurationMinutes(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultTaskMinutes
	}

	total := 0
	if m := reHours.FindStringSubmatch(s); m != nil {
		if h, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += int(h * 60)
		}
	}
	if m := reMinutes.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			total += n
		}
	}
	if total == 0 {
		// Bare number means minutes.
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
		return defaultTaskMinutes
	}
	return total
}

// EstimateDurationMinutes sums per-task estimates for a visit covering the
// given tasks. Schedule tasks carry no duration of their own, so each one
// contributes the default.
func EstimateDurationMinutes(tasks []entity.ScheduleTask) int {
	return len(tasks) * defaultTaskMinutes
}

// EstimateCleaningDurationMinutes sums the extracted duration text of flat
// cleaning tasks.
func EstimateCleaningDurationMinutes(tasks []entity.CleaningTask) int {
	total := 0
	for _, t := range tasks {
		total += ParseDurationMinutes(t.EstimatedDuration)
	}
	return total
}

// FormatMinutes renders a minute count the way schedules display it:
// "45m", "2h", "2h 30m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
