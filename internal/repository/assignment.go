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

// AssignmentRepository stores assignments and their completion history.
type AssignmentRepository interface {
	Create(ctx context.Context, a *entity.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error)
	ListByTarget(ctx context.Context, kind constants.TargetKind, targetID string) ([]entity.Assignment, error)
	ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]entity.Assignment, error)
	ListAll(ctx context.Context) ([]entity.Assignment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	SetStatus(ctx context.Context, id uuid.UUID, status constants.AssignmentStatus) error
	// CompleteAdvance applies a completion's rollover and its audit record in
	// one transaction. The update only succeeds if next_due still holds
	// prevNextDue, so two racing completions cannot both advance from the
	// same prior value.
	CompleteAdvance(ctx context.Context, id uuid.UUID, prevNextDue, newNextDue time.Time, c *entity.Completion) error

	ListCompletions(ctx context.Context, assignmentID uuid.UUID) ([]entity.Completion, error)
}

type assignmentRepo struct {
	db  *sqlx.DB
	log *slog.Logger
}

func NewAssignmentRepository(db *sqlx.DB, log *slog.Logger) AssignmentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &assignmentRepo{db: db, log: log}
}

func (r *assignmentRepo) Create(ctx context.Context, a *entity.Assignment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO assignments
		 (id, schedule_id, target_kind, target_id, frequency, next_due, last_completed, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ScheduleID, a.TargetKind, a.TargetID, a.Frequency,
		a.NextDue, a.LastCompleted, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		r.log.Error("assignment create failed", "assignment_id", a.ID, "err", err)
		return err
	}
	r.log.Info("assignment created",
		"assignment_id", a.ID, "schedule_id", a.ScheduleID,
		"target_kind", a.TargetKind, "target_id", a.TargetID, "frequency", a.Frequency)
	return nil
}

func (r *assignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Assignment, error) {
	var a entity.Assignment
	err := r.db.GetContext(ctx, &a, `SELECT * FROM assignments WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("ASSIGNMENT_NOT_FOUND", "assignment not found", common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) ListByTarget(ctx context.Context, kind constants.TargetKind, targetID string) ([]entity.Assignment, error) {
	var out []entity.Assignment
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM assignments WHERE target_kind = ? AND target_id = ? ORDER BY next_due`, kind, targetID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]entity.Assignment, error) {
	var out []entity.Assignment
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM assignments WHERE schedule_id = ? ORDER BY next_due`, scheduleID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) ListAll(ctx context.Context) ([]entity.Assignment, error) {
	var out []entity.Assignment
	if err := r.db.SelectContext(ctx, &out, `SELECT * FROM assignments ORDER BY next_due`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NewAppError("ASSIGNMENT_NOT_FOUND", "assignment not found", common.ErrNotFound)
	}
	r.log.Info("assignment deleted", "assignment_id", id)
	return nil
}

func (r *assignmentRepo) SetStatus(ctx context.Context, id uuid.UUID, status constants.AssignmentStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.NewAppError("ASSIGNMENT_NOT_FOUND", "assignment not found", common.ErrNotFound)
	}
	return nil
}

func (r *assignmentRepo) CompleteAdvance(ctx context.Context, id uuid.UUID, prevNextDue, newNextDue time.Time, c *entity.Completion) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE assignments
		 SET next_due = ?, last_completed = ?, status = ?, updated_at = ?
		 WHERE id = ? AND next_due = ?`,
		newNextDue, c.CompletedAt, constants.AssignmentCompleted, c.CompletedAt, id, prevNextDue)
	if err != nil {
		r.log.Error("assignment complete failed", "assignment_id", id, "err", err)
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Either the row is gone or someone else advanced next_due first.
		// Check on the same tx; the pool has a single connection.
		var exists int
		if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM assignments WHERE id = ?`, id); err != nil {
			return err
		}
		if exists == 0 {
			return common.NewAppError("ASSIGNMENT_NOT_FOUND", "assignment not found", common.ErrNotFound)
		}
		r.log.Warn("assignment completion lost race", "assignment_id", id)
		return common.NewAppError("COMPLETION_CONFLICT",
			"the assignment was completed concurrently; reload and retry", common.ErrConflict)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO completions (id, assignment_id, completed_tasks, notes, completed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.AssignmentID, c.CompletedTasks, c.Notes, c.CompletedAt); err != nil {
		r.log.Error("completion insert failed", "assignment_id", c.AssignmentID, "err", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Info("assignment completed",
		"assignment_id", id, "next_due", newNextDue, "completed_at", c.CompletedAt)
	return nil
}

func (r *assignmentRepo) ListCompletions(ctx context.Context, assignmentID uuid.UUID) ([]entity.Completion, error) {
	var out []entity.Completion
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM completions WHERE assignment_id = ? ORDER BY completed_at DESC`, assignmentID)
	if err != nil {
		return nil, err
	}
	return out, nil
}
