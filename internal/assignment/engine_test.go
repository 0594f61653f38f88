package assignment

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
	"github.com/andrei-iacobb/neatplan-sub000/internal/repository"
)

func newTestEngine(t *testing.T, now time.Time) (*Engine, repository.ScheduleRepository, repository.AssignmentRepository) {
	t.Helper()
	ctx := context.Background()

	db, err := repository.Open(ctx, repository.Config{Path: filepath.Join(t.TempDir(), "test.db")}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	schedules := repository.NewScheduleRepository(db, slog.Default())
	assignments := repository.NewAssignmentRepository(db, slog.Default())
	engine := NewEngine(assignments, schedules, slog.Default(), WithClock(func() time.Time { return now }))
	return engine, schedules, assignments
}

func seedSchedule(t *testing.T, schedules repository.ScheduleRepository, suggested *constants.Frequency) *entity.Schedule {
	t.Helper()
	s := &entity.Schedule{
		ID:                 uuid.New(),
		Title:              "Ward Housekeeping",
		SuggestedFrequency: suggested,
		Tasks: []entity.ScheduleTask{
			{ID: uuid.New(), Description: "Mop floors"},
			{ID: uuid.New(), Description: "Disinfect handles"},
		},
	}
	require.NoError(t, schedules.Create(context.Background(), s))
	return s
}

func freqPtr(f constants.Frequency) *constants.Frequency { return &f }

func TestAssignUsesSuggestedFrequency(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	engine, schedules, _ := newTestEngine(t, now)
	sched := seedSchedule(t, schedules, freqPtr(constants.Weekly))

	a, err := engine.Assign(context.Background(), sched.ID, constants.TargetRoom, "room-101", nil)
	require.NoError(t, err)

	assert.Equal(t, constants.Weekly, a.Frequency)
	assert.Equal(t, constants.AssignmentPending, a.Status)
	assert.True(t, a.NextDue.Equal(now), "new assignments are immediately due")
}

func TestAssignExplicitFrequencyWins(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	engine, schedules, _ := newTestEngine(t, now)
	sched := seedSchedule(t, schedules, freqPtr(constants.Weekly))

	a, err := engine.Assign(context.Background(), sched.ID, constants.TargetEquipment, "autoclave-2", freqPtr(constants.Monthly))
	require.NoError(t, err)
	assert.Equal(t, constants.Monthly, a.Frequency)
}

func TestAssignFrequencyRequired(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	engine, schedules, _ := newTestEngine(t, now)
	sched := seedSchedule(t, schedules, nil)

	_, err := engine.Assign(context.Background(), sched.ID, constants.TargetRoom, "room-101", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrFrequencyRequired))
}

func TestAssignUnknownSchedule(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	engine, _, _ := newTestEngine(t, now)

	_, err := engine.Assign(context.Background(), uuid.New(), constants.TargetRoom, "room-101", freqPtr(constants.Daily))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestCompleteAdvancesFromPreviousDueDate(t *testing.T) {
	// Assigned and due 2024-01-01, completed late on 2024-01-10: the next due
	// date is a week after the original due date, not a week after completion.
	assigned := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	engine, schedules, _ := newTestEngine(t, assigned)
	sched := seedSchedule(t, schedules, freqPtr(constants.Weekly))

	a, err := engine.Assign(context.Background(), sched.ID, constants.TargetRoom, "room-101", nil)
	require.NoError(t, err)

	completedAt := time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)
	engine.now = func() time.Time { return completedAt }

	updated, err := engine.Complete(context.Background(), a.ID, []uuid.UUID{sched.Tasks[0].ID}, "done late")
	require.NoError(t, err)

	wantDue := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	assert.True(t, updated.NextDue.Equal(wantDue), "got %v want %v", updated.NextDue, wantDue)
	assert.Equal(t, constants.AssignmentCompleted, updated.Status)
	require.NotNil(t, updated.LastCompleted)
	assert.True(t, updated.LastCompleted.Equal(completedAt))
}

func TestCompleteRecordsHistory(t *testing.T) {
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	engine, schedules, assignments := newTestEngine(t, now)
	sched := seedSchedule(t, schedules, freqPtr(constants.Daily))

	a, err := engine.Assign(context.Background(), sched.ID, constants.TargetRoom, "room-7", nil)
	require.NoError(t, err)

	_, err = engine.Complete(context.Background(), a.ID, []uuid.UUID{sched.Tasks[0].ID, sched.Tasks[1].ID}, "all good")
	require.NoError(t, err)

	history, err := assignments.ListCompletions(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.JSONEq(t,
		`["`+sched.Tasks[0].ID.String()+`","`+sched.Tasks[1].ID.String()+`"]`,
		history[0].CompletedTasks)
	require.NotNil(t, history[0].Notes)
	assert.Equal(t, "all good", *history[0].Notes)
}

func TestCompleteRequiresTasks(t *testing.T) {
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	engine, schedules, assignments := newTestEngine(t, now)
	sched := seedSchedule(t, schedules, freqPtr(constants.Daily))

	a, err := engine.Assign(context.Background(), sched.ID, constants.TargetRoom, "room-7", nil)
	require.NoError(t, err)

	_, err = engine.Complete(context.Background(), a.ID, nil, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNothingCompleted))

	// Nothing moved.
	reloaded, err := assignments.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.NextDue.Equal(a.NextDue))
	assert.Nil(t, reloaded.LastCompleted)
	assert.Equal(t, constants.AssignmentPending, reloaded.Status)
}

func TestPauseAndResume(t *testing.T) {
	now := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	engine, schedules, assignments := newTestEngine(t, now)
	sched := seedSchedule(t, schedules, freqPtr(constants.Daily))

	a, err := engine.Assign(context.Background(), sched.ID, constants.TargetRoom, "room-7", nil)
	require.NoError(t, err)

	require.NoError(t, engine.Pause(context.Background(), a.ID))
	paused, err := assignments.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.AssignmentPaused, paused.Status)

	// Resuming a non-paused assignment is rejected.
	require.NoError(t, engine.Resume(context.Background(), a.ID))
	err = engine.Resume(context.Background(), a.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestAssignmentsForTarget(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	engine, schedules, _ := newTestEngine(t, now)
	sched := seedSchedule(t, schedules, freqPtr(constants.Daily))

	_, err := engine.Assign(context.Background(), sched.ID, constants.TargetRoom, "room-3", nil)
	require.NoError(t, err)

	views, priority, err := engine.AssignmentsForTarget(context.Background(), constants.TargetRoom, "room-3")
	require.NoError(t, err)

	require.Len(t, views, 1)
	assert.Equal(t, constants.DerivedPending, views[0].DerivedStatus)
	assert.Equal(t, "Ward Housekeeping", views[0].ScheduleTitle)
	assert.Equal(t, "10m", views[0].EstimatedDuration)
	assert.Equal(t, constants.PriorityDueToday, priority)

	// Other targets see nothing.
	views, priority, err = engine.AssignmentsForTarget(context.Background(), constants.TargetRoom, "room-4")
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.Equal(t, constants.PriorityUpcoming, priority)
}

func TestNextDueAfter(t *testing.T) {
	base := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		freq constants.Frequency
		want time.Time
	}{
		{constants.Daily, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)},
		{constants.Weekly, time.Date(2024, 2, 7, 10, 0, 0, 0, time.UTC)},
		{constants.Biweekly, time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)},
		{constants.Quarterly, time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC)},
		{constants.Yearly, time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := NextDueAfter(base, tt.freq)
		assert.True(t, got.Equal(tt.want), "%s: got %v want %v", tt.freq, got, tt.want)
	}
}

func TestDeriveStatusBoundaries(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	mk := func(due time.Time) entity.Assignment {
		return entity.Assignment{NextDue: due, Status: constants.AssignmentPending}
	}

	assert.Equal(t, constants.DerivedOverdue, DeriveStatus(mk(now.AddDate(0, 0, -1)), now))
	assert.Equal(t, constants.DerivedPending, DeriveStatus(mk(now), now))
	assert.Equal(t, constants.DerivedPending, DeriveStatus(mk(now.AddDate(0, 0, 2)), now))
	assert.Equal(t, constants.DerivedNotDueYet, DeriveStatus(mk(now.AddDate(0, 0, 3)), now))

	// Paused wins over everything.
	paused := entity.Assignment{NextDue: now.AddDate(0, 0, -30), Status: constants.AssignmentPaused}
	assert.Equal(t, constants.DerivedPaused, DeriveStatus(paused, now))

	// Completed today pins COMPLETED; yesterday's completion does not.
	earlier := now.Add(-2 * time.Hour)
	completedToday := entity.Assignment{NextDue: now.AddDate(0, 0, 1), Status: constants.AssignmentCompleted, LastCompleted: &earlier}
	assert.Equal(t, constants.DerivedCompleted, DeriveStatus(completedToday, now))

	yesterday := now.AddDate(0, 0, -1)
	completedYesterday := entity.Assignment{NextDue: now.AddDate(0, 0, 1), Status: constants.AssignmentCompleted, LastCompleted: &yesterday}
	assert.Equal(t, constants.DerivedPending, DeriveStatus(completedYesterday, now))
}

func TestClassifyPriority(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("empty is upcoming", func(t *testing.T) {
		assert.Equal(t, constants.PriorityUpcoming, ClassifyPriority(nil, now))
	})

	t.Run("pending more than a day late is overdue", func(t *testing.T) {
		list := []entity.Assignment{
			{Status: constants.AssignmentPending, NextDue: now.Add(-25 * time.Hour)},
			{Status: constants.AssignmentCompleted, NextDue: now.AddDate(0, 0, 5)},
		}
		assert.Equal(t, constants.PriorityOverdue, ClassifyPriority(list, now))
	})

	t.Run("due today beats upcoming", func(t *testing.T) {
		list := []entity.Assignment{
			{Status: constants.AssignmentPending, NextDue: now.Add(2 * time.Hour)},
			{Status: constants.AssignmentPending, NextDue: now.AddDate(0, 0, 10)},
		}
		assert.Equal(t, constants.PriorityDueToday, ClassifyPriority(list, now))
	})

	t.Run("all completed", func(t *testing.T) {
		list := []entity.Assignment{
			{Status: constants.AssignmentCompleted, NextDue: now.AddDate(0, 0, 3)},
			{Status: constants.AssignmentCompleted, NextDue: now.AddDate(0, 0, 6)},
		}
		assert.Equal(t, constants.PriorityCompleted, ClassifyPriority(list, now))
	})

	t.Run("otherwise upcoming", func(t *testing.T) {
		list := []entity.Assignment{
			{Status: constants.AssignmentPending, NextDue: now.AddDate(0, 0, 4)},
		}
		assert.Equal(t, constants.PriorityUpcoming, ClassifyPriority(list, now))
	})
}
