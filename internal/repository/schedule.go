package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

// ScheduleRepository is the catalog's store for templates, their tasks, and
// the flat tasks created by the JSON extraction path.
type ScheduleRepository interface {
	Create(ctx context.Context, s *entity.Schedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error)
	List(ctx context.Context) ([]entity.Schedule, error)
	Update(ctx context.Context, id uuid.UUID, title *string, suggested *constants.Frequency) error
	Delete(ctx context.Context, id uuid.UUID) error

	AddTask(ctx context.Context, t *entity.ScheduleTask) error
	UpdateTask(ctx context.Context, scheduleID, taskID uuid.UUID, description, frequency, notes *string) error
	DeleteTask(ctx context.Context, scheduleID, taskID uuid.UUID) error

	CreateCleaningTasks(ctx context.Context, tasks []entity.CleaningTask) error
	ListCleaningTasks(ctx context.Context) ([]entity.CleaningTask, error)
}

type scheduleRepo struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewScheduleRepository(db *sqlx.DB, log *slog.Logger) ScheduleRepository {
	if log == nil {
		log = slog.Default()
	}
	return &scheduleRepo{db: db, log: log}
}

func (r *scheduleRepo) Create(ctx context.Context, s *entity.Schedule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	_, err = tx.ExecContext(ctx,
		`INSERT INTO schedules (id, title, detected_frequency, suggested_frequency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Title, s.DetectedFrequency, s.SuggestedFrequency, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		r.log.Error("schedule create failed", "schedule_id", s.ID, "err", err)
		return err
	}

	for i := range s.Tasks {
		t := &s.Tasks[i]
		t.ScheduleID = s.ID
		t.Position = i
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schedule_tasks (id, schedule_id, description, frequency, notes, position)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.ScheduleID, t.Description, t.Frequency, t.Notes, t.Position); err != nil {
			r.log.Error("schedule task create failed", "schedule_id", s.ID, "err", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Info("schedule created", "schedule_id", s.ID, "tasks", len(s.Tasks))
	return nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Schedule, error) {
	var s entity.Schedule
	err := r.db.GetContext(ctx, &s, `SELECT * FROM schedules WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("SCHEDULE_NOT_FOUND", "schedule not found", common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.db.SelectContext(ctx, &s.Tasks,
		`SELECT * FROM schedule_tasks WHERE schedule_id = ? ORDER BY position`, id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepo) List(ctx context.Context) ([]entity.Schedule, error) {
	var out []entity.Schedule
	if err := r.db.SelectContext(ctx, &out, `SELECT * FROM schedules ORDER BY created_at`); err != nil {
		return nil, err
	}
	return out, nil
}

// Update touches title and suggested_frequency only; detected_frequency is
// immutable provenance.
func (r *scheduleRepo) Update(ctx context.Context, id uuid.UUID, title *string, suggested *constants.Frequency) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedules
		 SET title = COALESCE(?, title),
		     suggested_frequency = COALESCE(?, suggested_frequency),
		     updated_at = ?
		 WHERE id = ?`,
		title, suggested, time.Now().UTC(), id)
	if err != nil {
		r.log.Error("schedule update failed", "schedule_id", id, "err", err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NewAppError("SCHEDULE_NOT_FOUND", "schedule not found", common.ErrNotFound)
	}
	return nil
}

// Delete refuses while assignments still reference the schedule, then cascades
// to the schedule's tasks. The integrity check lives here, not in the database
// engine, so behavior is identical across stores.
func (r *scheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var dependents int
	if err := r.db.GetContext(ctx, &dependents,
		`SELECT COUNT(*) FROM assignments WHERE schedule_id = ?`, id); err != nil {
		return err
	}
	if dependents > 0 {
		return common.HasDependentAssignmentsError(dependents)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_tasks WHERE schedule_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NewAppError("SCHEDULE_NOT_FOUND", "schedule not found", common.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Info("schedule deleted", "schedule_id", id)
	return nil
}

func (r *scheduleRepo) AddTask(ctx context.Context, t *entity.ScheduleTask) error {
	var maxPos sql.NullInt64
	if err := r.db.GetContext(ctx, &maxPos,
		`SELECT MAX(position) FROM schedule_tasks WHERE schedule_id = ?`, t.ScheduleID); err != nil {
		return err
	}
	t.Position = 0
	if maxPos.Valid {
		t.Position = int(maxPos.Int64) + 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO schedule_tasks (id, schedule_id, description, frequency, notes, position)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.ScheduleID, t.Description, t.Frequency, t.Notes, t.Position)
	if err != nil {
		r.log.Error("task add failed", "schedule_id", t.ScheduleID, "err", err)
	}
	return err
}

func (r *scheduleRepo) UpdateTask(ctx context.Context, scheduleID, taskID uuid.UUID, description, frequency, notes *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedule_tasks
		 SET description = COALESCE(?, description),
		     frequency = COALESCE(?, frequency),
		     notes = COALESCE(?, notes)
		 WHERE id = ? AND schedule_id = ?`,
		description, frequency, notes, taskID, scheduleID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NewAppError("TASK_NOT_FOUND", "task not found in schedule", common.ErrNotFound)
	}
	return nil
}

func (r *scheduleRepo) DeleteTask(ctx context.Context, scheduleID, taskID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM schedule_tasks WHERE id = ? AND schedule_id = ?`, taskID, scheduleID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NewAppError("TASK_NOT_FOUND", "task not found in schedule", common.ErrNotFound)
	}
	return nil
}

func (r *scheduleRepo) CreateCleaningTasks(ctx context.Context, tasks []entity.CleaningTask) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range tasks {
		t := &tasks[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cleaning_tasks (id, description, frequency, estimated_duration, area, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.Description, t.Frequency, t.EstimatedDuration, t.Area, t.CreatedAt); err != nil {
			r.log.Error("cleaning task create failed", "err", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Info("cleaning tasks created", "count", len(tasks))
	return nil
}

func (r *scheduleRepo) ListCleaningTasks(ctx context.Context) ([]entity.CleaningTask, error) {
	var out []entity.CleaningTask
	if err := r.db.SelectContext(ctx, &out, `SELECT * FROM cleaning_tasks ORDER BY created_at`); err != nil {
		return nil, err
	}
	return out, nil
}
