package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
)

func TestParseScheduleBlock(t *testing.T) {
	raw := `Title: Ward 3 Housekeeping
Type: Deep Clean
Frequency: every week
Area: East Wing
Tasks:
- Mop all floors (Frequency: daily)
- Disinfect door handles
  Additional notes: use the green-label product
- Empty clinical waste bins`

	draft, err := ParseScheduleBlock(raw)
	require.NoError(t, err)

	assert.Equal(t, "Ward 3 Housekeeping - Deep Clean - East Wing", draft.Title)
	require.NotNil(t, draft.DetectedFrequency)
	assert.Equal(t, "every week", *draft.DetectedFrequency)

	require.Len(t, draft.Tasks, 3)
	assert.Equal(t, "Mop all floors", draft.Tasks[0].Description)
	assert.Equal(t, "daily", draft.Tasks[0].Frequency)
	assert.Equal(t, "Disinfect door handles", draft.Tasks[1].Description)
	assert.Equal(t, "use the green-label product", draft.Tasks[1].Notes)
	assert.Equal(t, "Empty clinical waste bins", draft.Tasks[2].Description)
}

func TestParseScheduleBlockRejectsPlaceholderTitleParts(t *testing.T) {
	raw := "Title: undefined\nType: N/A\nArea: none\nTasks:\n- Sweep entrance"
	draft, err := ParseScheduleBlock(raw)
	require.NoError(t, err)
	assert.Equal(t, DefaultScheduleTitle, draft.Title)
}

func TestParseScheduleBlockPartialTitle(t *testing.T) {
	raw := "Type: Kitchen\nArea: Ground Floor\nTasks:\n- Degrease the hobs"
	draft, err := ParseScheduleBlock(raw)
	require.NoError(t, err)
	assert.Equal(t, "Kitchen - Ground Floor", draft.Title)
}

func TestParseScheduleBlockNoTasksMarker(t *testing.T) {
	_, err := ParseScheduleBlock("Title: Something\nJust prose, no task section.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNoContent))
}

func TestParseScheduleBlockMarkerButNoTasks(t *testing.T) {
	_, err := ParseScheduleBlock("Title: Something\nTasks:\nnothing bulleted here")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrExtractionEmpty))
}

func TestParseTaskListStructured(t *testing.T) {
	raw := "```json\n" + `[
  {"taskDescription": "Vacuum reception", "frequency": "weekly", "estimatedDuration": "20 minutes", "area": "Reception"},
  {"taskDescription": "Clean windows"}
]` + "\n```"

	parsed := ParseTaskList(raw)
	assert.Equal(t, SourceStructuredList, parsed.Source)
	require.Len(t, parsed.Tasks, 2)

	assert.Equal(t, "Vacuum reception", parsed.Tasks[0].Description)
	assert.Equal(t, "weekly", parsed.Tasks[0].Frequency)
	assert.Equal(t, "20 minutes", parsed.Tasks[0].EstimatedDuration)
	assert.Equal(t, "Reception", parsed.Tasks[0].Area)

	// Defaults fill the second task's missing fields.
	assert.Equal(t, "Clean windows", parsed.Tasks[1].Description)
	assert.Equal(t, DefaultFrequency, parsed.Tasks[1].Frequency)
	assert.Equal(t, DefaultDuration, parsed.Tasks[1].EstimatedDuration)
	assert.Empty(t, parsed.Tasks[1].Area)
}

func TestParseTaskListRecoversFreeText(t *testing.T) {
	raw := "Sure! Here are the tasks:\n- Dust the shelves\n- Mop the corridor\n"
	parsed := ParseTaskList(raw)

	assert.Equal(t, SourceRecoveredFreeText, parsed.Source)
	require.Len(t, parsed.Tasks, 3)
	assert.Equal(t, "Sure! Here are the tasks:", parsed.Tasks[0].Description)
	assert.Equal(t, "Dust the shelves", parsed.Tasks[1].Description)
	assert.Equal(t, "Mop the corridor", parsed.Tasks[2].Description)
	for _, task := range parsed.Tasks {
		assert.Equal(t, DefaultFrequency, task.Frequency)
		assert.Equal(t, DefaultDuration, task.EstimatedDuration)
	}
}

func TestParseTaskListRejectsWrongShape(t *testing.T) {
	// Valid JSON but not the requested array shape fails validation and drops
	// to recovery.
	parsed := ParseTaskList(`{"tasks": ["Mop floor"]}`)
	assert.Equal(t, SourceRecoveredFreeText, parsed.Source)
	assert.NotEmpty(t, parsed.Tasks)
}

func TestParseTaskListEmptyInput(t *testing.T) {
	parsed := ParseTaskList("")
	assert.Equal(t, SourceRecoveredFreeText, parsed.Source)
	assert.Empty(t, parsed.Tasks)
}
