package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"30 minutes", 30},
		{"45 min", 45},
		{"1 hour", 60},
		{"1.5 hours", 90},
		{"2h 15m", 135},
		{"20", 20},
		{"", 5},
		{"a while", 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDurationMinutes(tt.in), "input %q", tt.in)
	}
}

func TestEstimateDurationMinutes(t *testing.T) {
	tasks := []entity.ScheduleTask{
		{Description: "Mop floors"},
		{Description: "Dust shelves"},
		{Description: "Empty bins"},
	}
	assert.Equal(t, 15, EstimateDurationMinutes(tasks))
	assert.Zero(t, EstimateDurationMinutes(nil))
}

func TestEstimateCleaningDurationMinutes(t *testing.T) {
	tasks := []entity.CleaningTask{
		{EstimatedDuration: "30 minutes"},
		{EstimatedDuration: "1 hour"},
		{EstimatedDuration: "unknowable"},
	}
	assert.Equal(t, 95, EstimateCleaningDurationMinutes(tasks))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "2h 30m", FormatMinutes(150))
	assert.Equal(t, "0m", FormatMinutes(0))
}
