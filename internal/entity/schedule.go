package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
)

// Schedule represents a reusable template of cleaning/maintenance tasks.
// DetectedFrequency is the literal phrase found in the source document and is
// immutable provenance; SuggestedFrequency is the editable canonical default
// used when assigning.
type Schedule struct {
	ID                 uuid.UUID            `json:"id" db:"id"`
	Title              string               `json:"title" db:"title"`
	DetectedFrequency  *string              `json:"detected_frequency,omitempty" db:"detected_frequency"`
	SuggestedFrequency *constants.Frequency `json:"suggested_frequency,omitempty" db:"suggested_frequency"`
	Tasks              []ScheduleTask       `json:"tasks,omitempty" db:"-"`
	CreatedAt          time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at" db:"updated_at"`
}

// ScheduleTask is one ordered task within a schedule template.
type ScheduleTask struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ScheduleID  uuid.UUID `json:"schedule_id" db:"schedule_id"`
	Description string    `json:"description" db:"description"`
	Frequency   *string   `json:"frequency,omitempty" db:"frequency"` // per-task override
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	Position    int       `json:"position" db:"position"`
}

// CleaningTask is a flat stored task produced by the JSON extraction path,
// which stores tasks directly rather than as a titled template.
type CleaningTask struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Description       string    `json:"description" db:"description"`
	Frequency         string    `json:"frequency" db:"frequency"`
	EstimatedDuration string    `json:"estimated_duration" db:"estimated_duration"`
	Area              *string   `json:"area,omitempty" db:"area"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
