package constants

// AssignmentStatus is the canonical stored status for rows in assignments.
type AssignmentStatus string

// Stable values (store these exact strings in DB).
const (
	AssignmentPending   AssignmentStatus = "PENDING"
	AssignmentOverdue   AssignmentStatus = "OVERDUE"
	AssignmentCompleted AssignmentStatus = "COMPLETED"
	AssignmentPaused    AssignmentStatus = "PAUSED"
)

// DerivedStatus is computed at read time from next_due/status and never stored.
type DerivedStatus string

const (
	DerivedOverdue   DerivedStatus = "OVERDUE"
	DerivedPending   DerivedStatus = "PENDING"
	DerivedCompleted DerivedStatus = "COMPLETED"
	DerivedNotDueYet DerivedStatus = "NOT_DUE_YET"
	DerivedPaused    DerivedStatus = "PAUSED"
)

// TargetPriority is the per-room/per-equipment rollup bucket for dashboards.
type TargetPriority string

const (
	PriorityOverdue   TargetPriority = "OVERDUE"
	PriorityDueToday  TargetPriority = "DUE_TODAY"
	PriorityUpcoming  TargetPriority = "UPCOMING"
	PriorityCompleted TargetPriority = "COMPLETED"
)

// TargetKind identifies what an assignment is attached to.
type TargetKind string

const (
	TargetRoom      TargetKind = "ROOM"
	TargetEquipment TargetKind = "EQUIPMENT"
)

func (k TargetKind) Valid() bool {
	return k == TargetRoom || k == TargetEquipment
}
