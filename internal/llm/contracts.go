package llm

import (
	"context"

	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

// Defaults applied to extracted tasks missing optional fields.
const (
	DefaultFrequency     = "daily"
	DefaultDuration      = "30 minutes"
	DefaultScheduleTitle = "Cleaning Schedule"
)

// Client is the completion interface the extractor depends on. The model's
// answer is best-effort text with no guaranteed structure.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ScheduleDraft is the parsed result of the free-form schedule extraction mode.
type ScheduleDraft struct {
	Title             string
	DetectedFrequency *string
	Tasks             []entity.CandidateTask
}

// ParseSource tags how a task list was obtained from the model response.
type ParseSource string

const (
	// SourceStructuredList means the response parsed as the requested JSON array.
	SourceStructuredList ParseSource = "structured"
	// SourceRecoveredFreeText means the response was recovered line-by-line.
	SourceRecoveredFreeText ParseSource = "recovered"
)

// ParsedExtraction is the tagged result of the JSON task-list extraction mode.
// The recovery path is always constructible, so parsing never dead-ends.
type ParsedExtraction struct {
	Source ParseSource
	Tasks  []entity.CandidateTask
}
