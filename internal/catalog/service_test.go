package catalog

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
	"github.com/andrei-iacobb/neatplan-sub000/internal/llm"
	"github.com/andrei-iacobb/neatplan-sub000/internal/repository"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := repository.Open(context.Background(),
		repository.Config{Path: filepath.Join(t.TempDir(), "test.db")}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewService(repository.NewScheduleRepository(db, slog.Default()), slog.Default())
}

func TestCreateScheduleDerivesSuggestedFrequency(t *testing.T) {
	svc := newTestService(t)
	detected := "every two weeks"

	sched, err := svc.CreateSchedule(context.Background(), "Gym Equipment", &detected,
		[]entity.CandidateTask{{Description: "Wipe down machines"}})
	require.NoError(t, err)

	require.NotNil(t, sched.DetectedFrequency)
	assert.Equal(t, "every two weeks", *sched.DetectedFrequency)
	require.NotNil(t, sched.SuggestedFrequency)
	assert.Equal(t, constants.Biweekly, *sched.SuggestedFrequency)
}

func TestCreateScheduleUnrecognizedFrequencyPhrase(t *testing.T) {
	svc := newTestService(t)
	detected := "whenever it looks dirty"

	sched, err := svc.CreateSchedule(context.Background(), "Lobby", &detected,
		[]entity.CandidateTask{{Description: "Sweep entrance"}})
	require.NoError(t, err)

	// The phrase is preserved even though it maps to nothing.
	require.NotNil(t, sched.DetectedFrequency)
	assert.Nil(t, sched.SuggestedFrequency)
}

func TestCreateScheduleDefaultTitle(t *testing.T) {
	svc := newTestService(t)
	sched, err := svc.CreateSchedule(context.Background(), "  ", nil,
		[]entity.CandidateTask{{Description: "Mop floors"}})
	require.NoError(t, err)
	assert.Equal(t, llm.DefaultScheduleTitle, sched.Title)
}

func TestCreateScheduleDropsEmptyTasks(t *testing.T) {
	svc := newTestService(t)
	sched, err := svc.CreateSchedule(context.Background(), "Mixed", nil,
		[]entity.CandidateTask{
			{Description: "  "},
			{Description: "Real task", Frequency: "weekly", Notes: "use gloves"},
		})
	require.NoError(t, err)

	require.Len(t, sched.Tasks, 1)
	assert.Equal(t, "Real task", sched.Tasks[0].Description)
	require.NotNil(t, sched.Tasks[0].Frequency)
	assert.Equal(t, "weekly", *sched.Tasks[0].Frequency)
	require.NotNil(t, sched.Tasks[0].Notes)
	assert.Equal(t, "use gloves", *sched.Tasks[0].Notes)
}

func TestCreateScheduleAllTasksEmpty(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateSchedule(context.Background(), "Empty", nil,
		[]entity.CandidateTask{{Description: ""}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionEmpty))
}

func TestUpdateScheduleValidation(t *testing.T) {
	svc := newTestService(t)
	sched, err := svc.CreateSchedule(context.Background(), "Valid", nil,
		[]entity.CandidateTask{{Description: "Mop floors"}})
	require.NoError(t, err)

	empty := "   "
	err = svc.UpdateSchedule(context.Background(), sched.ID, &empty, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))

	bad := constants.Frequency("SOMETIMES")
	err = svc.UpdateSchedule(context.Background(), sched.ID, nil, &bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}
