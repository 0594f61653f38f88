// Package pipeline chains document ingestion end to end: raw bytes in,
// persisted schedule or task list out.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/andrei-iacobb/neatplan-sub000/internal/catalog"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
	"github.com/andrei-iacobb/neatplan-sub000/internal/extract"
	"github.com/andrei-iacobb/neatplan-sub000/internal/llm"
	"github.com/andrei-iacobb/neatplan-sub000/internal/rank"
)

// Mode selects which extraction shape the pipeline produces.
type Mode string

const (
	// ModeSchedule produces a titled schedule template.
	ModeSchedule Mode = "schedule"
	// ModeTasks produces a flat task list.
	ModeTasks Mode = "tasks"
)

func (m Mode) Valid() bool { return m == ModeSchedule || m == ModeTasks }

// Result reports what a single ingestion produced. Exactly one of Schedule
// and Tasks is set, matching the requested mode.
type Result struct {
	Schedule *entity.Schedule      `json:"schedule,omitempty"`
	Tasks    []entity.CleaningTask `json:"tasks,omitempty"`

	// Method names the text extraction used ("pdf-text", "docx-text", "vision").
	Method string `json:"method"`
	// Recovered is true when the model response failed structured parsing and
	// tasks were salvaged line-by-line.
	Recovered bool `json:"recovered"`
	// RankedLines is how many lines survived relevance ranking.
	RankedLines int `json:"ranked_lines"`
}

type Processor struct {
	extractor extract.TextExtractor
	tasks     *llm.TaskExtractor
	catalog   *catalog.Service
	logger    *slog.Logger
}

func NewProcessor(extractor extract.TextExtractor, tasks *llm.TaskExtractor, cat *catalog.Service, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{extractor: extractor, tasks: tasks, catalog: cat, logger: logger}
}

// IngestDocument runs extract, rank, model extraction, and persistence for one
// uploaded document.
func (p *Processor) IngestDocument(ctx context.Context, doc entity.RawDocument, mode Mode) (*Result, error) {
	if !mode.Valid() {
		return nil, common.NewAppError("INVALID_MODE", "mode must be schedule or tasks", common.ErrInvalidInput)
	}

	rid := uuid.New().String()
	start := time.Now()
	p.logger.Info("pipeline.ingest.start",
		"req_id", rid, "filename", doc.Filename, "mime_type", doc.MIMEType, "mode", string(mode), "bytes", len(doc.Data))

	extracted, err := p.extractor.Extract(ctx, doc)
	if err != nil {
		p.logger.Error("pipeline.ingest.extract_error", "req_id", rid, "error", err)
		return nil, err
	}

	ranked := rank.Rank(extracted.Text)
	if len(ranked.Lines) == 0 {
		p.logger.Warn("pipeline.ingest.no_relevant_lines", "req_id", rid)
		return nil, common.NoContentError()
	}
	rankedText := ranked.Text()

	res := &Result{Method: extracted.Method, RankedLines: len(ranked.Lines)}
	switch mode {
	case ModeSchedule:
		draft, err := p.tasks.ExtractSchedule(ctx, rankedText)
		if err != nil {
			return nil, err
		}
		sched, err := p.catalog.CreateSchedule(ctx, draft.Title, draft.DetectedFrequency, draft.Tasks)
		if err != nil {
			return nil, err
		}
		res.Schedule = sched

	case ModeTasks:
		parsed, err := p.tasks.ExtractTasks(ctx, rankedText)
		if err != nil {
			return nil, err
		}
		stored, err := p.catalog.CreateCleaningTasks(ctx, parsed.Tasks)
		if err != nil {
			return nil, err
		}
		res.Tasks = stored
		res.Recovered = parsed.Source == llm.SourceRecoveredFreeText
	}

	p.logger.Info("pipeline.ingest.ok",
		"req_id", rid,
		"method", res.Method,
		"ranked_lines", res.RankedLines,
		"recovered", res.Recovered,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
