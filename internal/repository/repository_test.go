package repository

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Path: filepath.Join(t.TempDir(), "test.db")}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testSchedule(title string) *entity.Schedule {
	detected := "every week"
	suggested := constants.Weekly
	return &entity.Schedule{
		ID:                 uuid.New(),
		Title:              title,
		DetectedFrequency:  &detected,
		SuggestedFrequency: &suggested,
		Tasks: []entity.ScheduleTask{
			{ID: uuid.New(), Description: "Mop floors"},
			{ID: uuid.New(), Description: "Dust shelves"},
		},
	}
}

func TestScheduleRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewScheduleRepository(db, slog.Default())
	ctx := context.Background()

	s := testSchedule("Ward Housekeeping")
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Title, got.Title)
	require.NotNil(t, got.DetectedFrequency)
	assert.Equal(t, "every week", *got.DetectedFrequency)
	require.NotNil(t, got.SuggestedFrequency)
	assert.Equal(t, constants.Weekly, *got.SuggestedFrequency)

	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "Mop floors", got.Tasks[0].Description)
	assert.Equal(t, 0, got.Tasks[0].Position)
	assert.Equal(t, 1, got.Tasks[1].Position)
}

func TestScheduleGetMissing(t *testing.T) {
	db := testDB(t)
	repo := NewScheduleRepository(db, slog.Default())

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestScheduleUpdatePreservesDetectedFrequency(t *testing.T) {
	db := testDB(t)
	repo := NewScheduleRepository(db, slog.Default())
	ctx := context.Background()

	s := testSchedule("Before")
	require.NoError(t, repo.Create(ctx, s))

	title := "After"
	monthly := constants.Monthly
	require.NoError(t, repo.Update(ctx, s.ID, &title, &monthly))

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, constants.Monthly, *got.SuggestedFrequency)
	// The detected phrase never changes, whatever else is edited.
	assert.Equal(t, "every week", *got.DetectedFrequency)
}

func TestScheduleDeleteBlockedByAssignments(t *testing.T) {
	db := testDB(t)
	schedules := NewScheduleRepository(db, slog.Default())
	assignments := NewAssignmentRepository(db, slog.Default())
	ctx := context.Background()

	s := testSchedule("Attached")
	require.NoError(t, schedules.Create(ctx, s))

	now := time.Now().UTC()
	require.NoError(t, assignments.Create(ctx, &entity.Assignment{
		ID: uuid.New(), ScheduleID: s.ID,
		TargetKind: constants.TargetRoom, TargetID: "room-1",
		Frequency: constants.Weekly, NextDue: now,
		Status: constants.AssignmentPending, CreatedAt: now, UpdatedAt: now,
	}))

	err := schedules.Delete(ctx, s.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrHasDependentAssignments))

	// Still there.
	_, err = schedules.GetByID(ctx, s.ID)
	require.NoError(t, err)
}

func TestScheduleDeleteCascadesTasks(t *testing.T) {
	db := testDB(t)
	repo := NewScheduleRepository(db, slog.Default())
	ctx := context.Background()

	s := testSchedule("Unattached")
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.Delete(ctx, s.ID))

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM schedule_tasks WHERE schedule_id = ?`, s.ID))
	assert.Zero(t, count)
}

func TestAddTaskAppendsPosition(t *testing.T) {
	db := testDB(t)
	repo := NewScheduleRepository(db, slog.Default())
	ctx := context.Background()

	s := testSchedule("Positions")
	require.NoError(t, repo.Create(ctx, s))

	task := &entity.ScheduleTask{ID: uuid.New(), ScheduleID: s.ID, Description: "Polish mirrors"}
	require.NoError(t, repo.AddTask(ctx, task))
	assert.Equal(t, 2, task.Position)
}

func TestCompleteAdvanceConflict(t *testing.T) {
	db := testDB(t)
	schedules := NewScheduleRepository(db, slog.Default())
	assignments := NewAssignmentRepository(db, slog.Default())
	ctx := context.Background()

	s := testSchedule("Race")
	require.NoError(t, schedules.Create(ctx, s))

	due := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a := &entity.Assignment{
		ID: uuid.New(), ScheduleID: s.ID,
		TargetKind: constants.TargetRoom, TargetID: "room-9",
		Frequency: constants.Daily, NextDue: due,
		Status: constants.AssignmentPending, CreatedAt: due, UpdatedAt: due,
	}
	require.NoError(t, assignments.Create(ctx, a))

	mkCompletion := func() *entity.Completion {
		return &entity.Completion{
			ID: uuid.New(), AssignmentID: a.ID,
			CompletedTasks: `["` + s.Tasks[0].ID.String() + `"]`,
			CompletedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		}
	}

	require.NoError(t, assignments.CompleteAdvance(ctx, a.ID, due, due.AddDate(0, 0, 1), mkCompletion()))

	// Second completion against the stale previous due date loses.
	err := assignments.CompleteAdvance(ctx, a.ID, due, due.AddDate(0, 0, 1), mkCompletion())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConflict))

	// Only the winner's history row exists.
	history, err := assignments.ListCompletions(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCompleteAdvanceMissingAssignment(t *testing.T) {
	db := testDB(t)
	assignments := NewAssignmentRepository(db, slog.Default())

	now := time.Now().UTC()
	err := assignments.CompleteAdvance(context.Background(), uuid.New(), now, now.AddDate(0, 0, 1),
		&entity.Completion{ID: uuid.New(), AssignmentID: uuid.New(), CompletedTasks: "[]", CompletedAt: now})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestCleaningTasksRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewScheduleRepository(db, slog.Default())
	ctx := context.Background()

	area := "Kitchen"
	tasks := []entity.CleaningTask{
		{ID: uuid.New(), Description: "Degrease hobs", Frequency: "weekly", EstimatedDuration: "45 minutes", Area: &area, CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), Description: "Clean fridge seals", Frequency: "monthly", EstimatedDuration: "30 minutes", CreatedAt: time.Now().UTC()},
	}
	require.NoError(t, repo.CreateCleaningTasks(ctx, tasks))

	got, err := repo.ListCleaningTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Degrease hobs", got[0].Description)
	require.NotNil(t, got[0].Area)
	assert.Equal(t, "Kitchen", *got[0].Area)
	assert.Nil(t, got[1].Area)
}
