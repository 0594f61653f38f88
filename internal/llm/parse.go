package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

var (
	reTasksMarker   = regexp.MustCompile(`(?i)^\s*tasks\s*:\s*$`)
	reTrailingFreq  = regexp.MustCompile(`(?i)\s*\(\s*frequency\s*:\s*([^)]+?)\s*\)\s*$`)
	reAdditionalRow = regexp.MustCompile(`(?i)^ {2,}additional notes\s*:\s*(.*)$`)
	reCodeFence     = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
)

// ParseScheduleBlock reads the labeled block the free-form extraction mode
// asks the model for. Fails with NoContent when no "Tasks:" marker exists, and
// with ExtractionEmpty when the marker exists but no valid tasks remain.
func ParseScheduleBlock(raw string) (ScheduleDraft, error) {
	lines := strings.Split(raw, "\n")

	var draft ScheduleDraft
	var titlePart, typePart, areaPart string
	tasksAt := -1

	for i, line := range lines {
		if reTasksMarker.MatchString(line) {
			tasksAt = i
			break
		}
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		switch {
		case strings.HasPrefix(lower, "title:"):
			titlePart = strings.TrimSpace(trimmed[len("title:"):])
		case strings.HasPrefix(lower, "type:"):
			typePart = strings.TrimSpace(trimmed[len("type:"):])
		case strings.HasPrefix(lower, "frequency:"):
			if f := strings.TrimSpace(trimmed[len("frequency:"):]); usableHeaderValue(f) {
				draft.DetectedFrequency = &f
			}
		case strings.HasPrefix(lower, "area:"):
			areaPart = strings.TrimSpace(trimmed[len("area:"):])
		}
	}

	if tasksAt < 0 {
		return ScheduleDraft{}, common.NoContentError()
	}

	draft.Title = assembleTitle(titlePart, typePart, areaPart)

	for _, line := range lines[tasksAt+1:] {
		// Indented notes belong to the preceding task; check before trimming.
		if m := reAdditionalRow.FindStringSubmatch(line); m != nil {
			if n := len(draft.Tasks); n > 0 {
				draft.Tasks[n-1].Notes = strings.TrimSpace(m[1])
			}
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") {
			continue
		}
		desc := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
		var freq string
		if m := reTrailingFreq.FindStringSubmatch(desc); m != nil {
			freq = strings.TrimSpace(m[1])
			desc = strings.TrimSpace(reTrailingFreq.ReplaceAllString(desc, ""))
		}
		if desc == "" {
			continue
		}
		draft.Tasks = append(draft.Tasks, entity.CandidateTask{
			Description: desc,
			Frequency:   freq,
		})
	}

	if len(draft.Tasks) == 0 {
		return ScheduleDraft{}, common.ExtractionEmptyError()
	}
	return draft, nil
}

// assembleTitle joins whichever of title/type/area are usable, rejecting
// placeholder strings the model sometimes emits, falling back to the default.
func assembleTitle(parts ...string) string {
	var usable []string
	for _, p := range parts {
		if usableHeaderValue(p) {
			usable = append(usable, p)
		}
	}
	if len(usable) == 0 {
		return DefaultScheduleTitle
	}
	return strings.Join(usable, " - ")
}

func usableHeaderValue(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "undefined", "null", "n/a", "none":
		return false
	}
	return true
}

// ParseTaskList reads the JSON task-list mode response. A response that fails
// schema validation or strict decoding is recovered line-by-line with default
// frequency/duration; this path never returns a parse error.
func ParseTaskList(raw string) ParsedExtraction {
	cleaned := stripCodeFences(raw)

	if err := ValidateJSONAgainstSchema(BuildTaskListJSONSchema(), []byte(cleaned)); err == nil {
		var tasks []entity.CandidateTask
		if err := json.Unmarshal([]byte(cleaned), &tasks); err == nil {
			return ParsedExtraction{
				Source: SourceStructuredList,
				Tasks:  finalizeTasks(tasks),
			}
		}
	}

	// Lossy but always-available recovery: one task per non-empty line.
	var tasks []entity.CandidateTask
	for _, line := range strings.Split(raw, "\n") {
		desc := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*• \t"))
		if desc == "" {
			continue
		}
		tasks = append(tasks, entity.CandidateTask{Description: desc})
	}
	return ParsedExtraction{
		Source: SourceRecoveredFreeText,
		Tasks:  finalizeTasks(tasks),
	}
}

// finalizeTasks drops entries with empty descriptions and applies defaults for
// missing frequency and duration. Area stays absent when missing.
func finalizeTasks(in []entity.CandidateTask) []entity.CandidateTask {
	out := make([]entity.CandidateTask, 0, len(in))
	for _, t := range in {
		t.Description = strings.TrimSpace(t.Description)
		if t.Description == "" {
			continue
		}
		if strings.TrimSpace(t.Frequency) == "" {
			t.Frequency = DefaultFrequency
		}
		if strings.TrimSpace(t.EstimatedDuration) == "" {
			t.EstimatedDuration = DefaultDuration
		}
		out = append(out, t)
	}
	return out
}

func stripCodeFences(s string) string {
	if m := reCodeFence.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return strings.TrimSpace(s)
}
