package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
)

// TaskExtractor turns ranked document text into structured cleaning tasks via
// the language model, with deterministic parsing and a recovery path.
type TaskExtractor struct {
	client Client
	logger *slog.Logger
}

func NewTaskExtractor(client Client, logger *slog.Logger) *TaskExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskExtractor{client: client, logger: logger}
}

// ExtractSchedule runs the free-form schedule extraction mode: a labeled
// Title/Type/Frequency/Area/Tasks block, parsed deterministically.
func (e *TaskExtractor) ExtractSchedule(ctx context.Context, rankedText string) (ScheduleDraft, error) {
	rid := uuid.New().String()
	start := time.Now()
	e.logger.Info("llm.schedule.start", "req_id", rid, "text_len", len(rankedText))

	raw, err := e.client.Complete(ctx, BuildSchedulePrompt(), rankedText)
	if err != nil {
		e.logger.Error("llm.schedule.complete_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return ScheduleDraft{}, common.ExtractionFailureError("language model call failed; please retry", err)
	}

	draft, err := ParseScheduleBlock(raw)
	if err != nil {
		e.logger.Warn("llm.schedule.parse_rejected",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return ScheduleDraft{}, err
	}

	e.logger.Info("llm.schedule.ok",
		"req_id", rid,
		"title", draft.Title,
		"tasks", len(draft.Tasks),
		"detected_frequency", draft.DetectedFrequency != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return draft, nil
}

// ExtractTasks runs the direct JSON task-list mode. A malformed model response
// is recovered line-by-line rather than failing; only an empty final list is
// an error.
func (e *TaskExtractor) ExtractTasks(ctx context.Context, rankedText string) (ParsedExtraction, error) {
	rid := uuid.New().String()
	start := time.Now()
	e.logger.Info("llm.tasks.start", "req_id", rid, "text_len", len(rankedText))

	raw, err := e.client.Complete(ctx, BuildTaskListPrompt(), rankedText)
	if err != nil {
		e.logger.Error("llm.tasks.complete_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return ParsedExtraction{}, common.ExtractionFailureError("language model call failed; please retry", err)
	}

	parsed := ParseTaskList(raw)
	if parsed.Source == SourceRecoveredFreeText {
		e.logger.Warn("llm.tasks.recovered_free_text", "req_id", rid, "tasks", len(parsed.Tasks))
	}
	if len(parsed.Tasks) == 0 {
		return ParsedExtraction{}, common.ExtractionEmptyError()
	}

	e.logger.Info("llm.tasks.ok",
		"req_id", rid,
		"source", string(parsed.Source),
		"tasks", len(parsed.Tasks),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return parsed, nil
}
