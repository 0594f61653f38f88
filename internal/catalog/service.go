// Package catalog owns the schedule template lifecycle: templates created by
// the extraction pipeline, their tasks, and the flat tasks stored by the JSON
// extraction path.
package catalog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
	"github.com/andrei-iacobb/neatplan-sub000/internal/llm"
	"github.com/andrei-iacobb/neatplan-sub000/internal/repository"
)

type Service struct {
	schedules repository.ScheduleRepository
	logger    *slog.Logger
}

func NewService(schedules repository.ScheduleRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{schedules: schedules, logger: logger}
}

// CreateSchedule persists a titled template. detectedFrequency is recorded as
// immutable provenance; the suggested frequency is derived from it once here
// and is editable afterwards.
func (s *Service) CreateSchedule(ctx context.Context, title string, detectedFrequency *string, tasks []entity.CandidateTask) (*entity.Schedule, error) {
	if strings.TrimSpace(title) == "" {
		title = llm.DefaultScheduleTitle
	}

	sched := &entity.Schedule{
		ID:                uuid.New(),
		Title:             title,
		DetectedFrequency: detectedFrequency,
	}
	if detectedFrequency != nil {
		if f, ok := constants.CanonicalFrequency(*detectedFrequency); ok {
			sched.SuggestedFrequency = &f
		}
	}

	for _, t := range tasks {
		desc := strings.TrimSpace(t.Description)
		if desc == "" {
			continue
		}
		st := entity.ScheduleTask{ID: uuid.New(), Description: desc}
		if f := strings.TrimSpace(t.Frequency); f != "" {
			st.Frequency = &f
		}
		if n := strings.TrimSpace(t.Notes); n != "" {
			st.Notes = &n
		}
		sched.Tasks = append(sched.Tasks, st)
	}
	if len(sched.Tasks) == 0 {
		return nil, common.ExtractionEmptyError()
	}

	if err := s.schedules.Create(ctx, sched); err != nil {
		return nil, err
	}
	s.logger.Info("catalog.schedule.created", "schedule_id", sched.ID, "title", sched.Title, "tasks", len(sched.Tasks))
	return sched, nil
}

// CreateCleaningTasks persists flat tasks for the JSON extraction path, which
// stores tasks directly rather than as a titled template.
func (s *Service) CreateCleaningTasks(ctx context.Context, tasks []entity.CandidateTask) ([]entity.CleaningTask, error) {
	now := time.Now().UTC()
	stored := make([]entity.CleaningTask, 0, len(tasks))
	for _, t := range tasks {
		desc := strings.TrimSpace(t.Description)
		if desc == "" {
			continue
		}
		ct := entity.CleaningTask{
			ID:                uuid.New(),
			Description:       desc,
			Frequency:         t.Frequency,
			EstimatedDuration: t.EstimatedDuration,
			CreatedAt:         now,
		}
		if a := strings.TrimSpace(t.Area); a != "" {
			ct.Area = &a
		}
		stored = append(stored, ct)
	}
	if len(stored) == 0 {
		return nil, common.ExtractionEmptyError()
	}

	if err := s.schedules.CreateCleaningTasks(ctx, stored); err != nil {
		return nil, err
	}
	s.logger.Info("catalog.cleaning_tasks.created", "count", len(stored))
	return stored, nil
}

func (s *Service) ListCleaningTasks(ctx context.Context) ([]entity.CleaningTask, error) {
	return s.schedules.ListCleaningTasks(ctx)
}

func (s *Service) GetSchedule(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	return s.schedules.GetByID(ctx, id)
}

func (s *Service) ListSchedules(ctx context.Context) ([]entity.Schedule, error) {
	return s.schedules.List(ctx)
}

// UpdateSchedule edits the title and/or suggested frequency. Once set
// manually, the suggested frequency wins over anything inferred from the
// detected phrase for all future assignments; the detected phrase itself is
// never touched.
func (s *Service) UpdateSchedule(ctx context.Context, id uuid.UUID, title *string, suggested *constants.Frequency) error {
	if title != nil && strings.TrimSpace(*title) == "" {
		return common.NewAppError("INVALID_TITLE", "title must not be empty", common.ErrInvalidInput)
	}
	if suggested != nil && !suggested.Valid() {
		return common.NewAppError("INVALID_FREQUENCY", "unknown frequency value", common.ErrInvalidInput)
	}
	return s.schedules.Update(ctx, id, title, suggested)
}

func (s *Service) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	return s.schedules.Delete(ctx, id)
}

func (s *Service) AddTask(ctx context.Context, scheduleID uuid.UUID, description string, frequency, notes *string) (*entity.ScheduleTask, error) {
	if strings.TrimSpace(description) == "" {
		return nil, common.NewAppError("INVALID_TASK", "task description must not be empty", common.ErrInvalidInput)
	}
	if _, err := s.schedules.GetByID(ctx, scheduleID); err != nil {
		return nil, err
	}
	t := &entity.ScheduleTask{
		ID:          uuid.New(),
		ScheduleID:  scheduleID,
		Description: strings.TrimSpace(description),
		Frequency:   frequency,
		Notes:       notes,
	}
	if err := s.schedules.AddTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) UpdateTask(ctx context.Context, scheduleID, taskID uuid.UUID, description, frequency, notes *string) error {
	if description != nil && strings.TrimSpace(*description) == "" {
		return common.NewAppError("INVALID_TASK", "task description must not be empty", common.ErrInvalidInput)
	}
	return s.schedules.UpdateTask(ctx, scheduleID, taskID, description, frequency, notes)
}

func (s *Service) DeleteTask(ctx context.Context, scheduleID, taskID uuid.UUID) error {
	return s.schedules.DeleteTask(ctx, scheduleID, taskID)
}
