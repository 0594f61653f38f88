package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
)

// Assignment attaches a schedule to a room or equipment target with a concrete
// frequency and due-date tracking. Status/NextDue are mutated only through the
// assignment engine.
type Assignment struct {
	ID            uuid.UUID                  `json:"id" db:"id"`
	ScheduleID    uuid.UUID                  `json:"schedule_id" db:"schedule_id"`
	TargetKind    constants.TargetKind       `json:"target_kind" db:"target_kind"`
	TargetID      string                     `json:"target_id" db:"target_id"`
	Frequency     constants.Frequency        `json:"frequency" db:"frequency"`
	NextDue       time.Time                  `json:"next_due" db:"next_due"`
	LastCompleted *time.Time                 `json:"last_completed,omitempty" db:"last_completed"`
	Status        constants.AssignmentStatus `json:"status" db:"status"`
	CreatedAt     time.Time                  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at" db:"updated_at"`
}

// Completion is the audit record written every time an assignment is completed.
type Completion struct {
	ID             uuid.UUID `json:"id" db:"id"`
	AssignmentID   uuid.UUID `json:"assignment_id" db:"assignment_id"`
	CompletedTasks string    `json:"completed_tasks" db:"completed_tasks"` // JSON array of task ids
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	CompletedAt    time.Time `json:"completed_at" db:"completed_at"`
}
