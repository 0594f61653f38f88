// Package assignment is the recurring schedule engine: it attaches templates
// to rooms/equipment, computes due dates, records completions, and classifies
// targets into dashboard priority buckets.
package assignment

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
	"github.com/andrei-iacobb/neatplan-sub000/internal/repository"
)

// View is an assignment with its read-time derived status and the estimated
// visit duration attached, so dashboards render without recomputation.
type View struct {
	entity.Assignment
	DerivedStatus     constants.DerivedStatus `json:"derived_status"`
	ScheduleTitle     string                  `json:"schedule_title"`
	EstimatedDuration string                  `json:"estimated_duration"`
}

type Engine struct {
	assignments repository.AssignmentRepository
	schedules   repository.ScheduleRepository
	logger      *slog.Logger
	now         func() time.Time
}

type Option func(*Engine)

// WithClock overrides the engine's time source in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(assignments repository.AssignmentRepository, schedules repository.ScheduleRepository, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		assignments: assignments,
		schedules:   schedules,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assign attaches a schedule to a target. With no explicit frequency the
// schedule's suggested frequency is used. The assignment is immediately due:
// the first occurrence is not deferred by one period.
func (e *Engine) Assign(ctx context.Context, scheduleID uuid.UUID, kind constants.TargetKind, targetID string, freq *constants.Frequency) (*entity.Assignment, error) {
	if !kind.Valid() {
		return nil, common.NewAppError("INVALID_TARGET", "target kind must be ROOM or EQUIPMENT", common.ErrInvalidInput)
	}
	if strings.TrimSpace(targetID) == "" {
		return nil, common.NewAppError("INVALID_TARGET", "target id is required", common.ErrInvalidInput)
	}

	sched, err := e.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	var frequency constants.Frequency
	switch {
	case freq != nil:
		if !freq.Valid() {
			return nil, common.NewAppError("INVALID_FREQUENCY", "unknown frequency value", common.ErrInvalidInput)
		}
		frequency = *freq
	case sched.SuggestedFrequency != nil:
		frequency = *sched.SuggestedFrequency
	default:
		return nil, common.FrequencyRequiredError()
	}

	now := e.now().UTC()
	a := &entity.Assignment{
		ID:         uuid.New(),
		ScheduleID: scheduleID,
		TargetKind: kind,
		TargetID:   targetID,
		Frequency:  frequency,
		NextDue:    now,
		Status:     constants.AssignmentPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := e.assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	e.logger.Info("engine.assign.ok",
		"assignment_id", a.ID, "schedule_id", scheduleID,
		"target_kind", kind, "target_id", targetID, "frequency", frequency)
	return a, nil
}

// Complete records a completion and rolls the due date forward. The new due
// date advances from the previous due date, not from "now", so a task
// completed late does not drift.
func (e *Engine) Complete(ctx context.Context, assignmentID uuid.UUID, completedTaskIDs []uuid.UUID, notes string) (*entity.Assignment, error) {
	if len(completedTaskIDs) == 0 {
		return nil, common.NothingCompletedError()
	}

	a, err := e.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(completedTaskIDs))
	for i, id := range completedTaskIDs {
		ids[i] = id.String()
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}

	completedAt := e.now().UTC()
	c := &entity.Completion{
		ID:             uuid.New(),
		AssignmentID:   assignmentID,
		CompletedTasks: string(encoded),
		CompletedAt:    completedAt,
	}
	if n := strings.TrimSpace(notes); n != "" {
		c.Notes = &n
	}

	next := NextDueAfter(a.NextDue, a.Frequency)
	if err := e.assignments.CompleteAdvance(ctx, assignmentID, a.NextDue, next, c); err != nil {
		return nil, err
	}
	e.logger.Info("engine.complete.ok",
		"assignment_id", assignmentID, "tasks", len(completedTaskIDs), "next_due", next)
	return e.assignments.GetByID(ctx, assignmentID)
}

// Pause takes an assignment out of due-date tracking without losing it.
func (e *Engine) Pause(ctx context.Context, assignmentID uuid.UUID) error {
	if err := e.assignments.SetStatus(ctx, assignmentID, constants.AssignmentPaused); err != nil {
		return err
	}
	e.logger.Info("engine.pause.ok", "assignment_id", assignmentID)
	return nil
}

// Resume puts a paused assignment back into PENDING tracking.
func (e *Engine) Resume(ctx context.Context, assignmentID uuid.UUID) error {
	a, err := e.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a.Status != constants.AssignmentPaused {
		return common.NewAppError("NOT_PAUSED", "assignment is not paused", common.ErrInvalidInput)
	}
	return e.assignments.SetStatus(ctx, assignmentID, constants.AssignmentPending)
}

// AssignmentsForTarget returns a target's assignments with derived statuses
// attached, plus the target's dashboard priority bucket.
func (e *Engine) AssignmentsForTarget(ctx context.Context, kind constants.TargetKind, targetID string) ([]View, constants.TargetPriority, error) {
	list, err := e.assignments.ListByTarget(ctx, kind, targetID)
	if err != nil {
		return nil, "", err
	}
	now := e.now()
	type schedInfo struct {
		title    string
		duration string
	}
	cache := map[uuid.UUID]schedInfo{}

	views := make([]View, len(list))
	for i, a := range list {
		info, ok := cache[a.ScheduleID]
		if !ok {
			if sched, err := e.schedules.GetByID(ctx, a.ScheduleID); err == nil {
				info = schedInfo{
					title:    sched.Title,
					duration: FormatMinutes(EstimateDurationMinutes(sched.Tasks)),
				}
			}
			cache[a.ScheduleID] = info
		}
		views[i] = View{
			Assignment:        a,
			DerivedStatus:     DeriveStatus(a, now),
			ScheduleTitle:     info.title,
			EstimatedDuration: info.duration,
		}
	}
	return views, ClassifyPriority(list, now), nil
}

func (e *Engine) Delete(ctx context.Context, assignmentID uuid.UUID) error {
	return e.assignments.Delete(ctx, assignmentID)
}

// NextDueAfter advances a due date by one period. Month/quarter/year use
// calendar-aware addition so due dates do not drift across months of
// different lengths.
func NextDueAfter(t time.Time, f constants.Frequency) time.Time {
	switch f {
	case constants.Daily:
		return t.AddDate(0, 0, 1)
	case constants.Weekly:
		return t.AddDate(0, 0, 7)
	case constants.Biweekly:
		return t.AddDate(0, 0, 14)
	case constants.Monthly:
		return t.AddDate(0, 1, 0)
	case constants.Quarterly:
		return t.AddDate(0, 3, 0)
	case constants.Yearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// DeriveStatus computes the read-time status for display; it is never stored.
// A completion pins COMPLETED for the rest of that calendar day. Anything due
// within today through two days out shows as PENDING so cleaners see upcoming
// work early.
func DeriveStatus(a entity.Assignment, now time.Time) constants.DerivedStatus {
	if a.Status == constants.AssignmentPaused {
		return constants.DerivedPaused
	}
	if a.Status == constants.AssignmentCompleted && a.LastCompleted != nil && sameDay(*a.LastCompleted, now) {
		return constants.DerivedCompleted
	}

	today := dayOf(now)
	dueDay := dayOf(a.NextDue.In(now.Location()))
	switch {
	case dueDay.Before(today):
		return constants.DerivedOverdue
	case !dueDay.After(today.AddDate(0, 0, 2)):
		return constants.DerivedPending
	default:
		return constants.DerivedNotDueYet
	}
}

// ClassifyPriority rolls a target's assignments into one dashboard bucket.
func ClassifyPriority(assignments []entity.Assignment, now time.Time) constants.TargetPriority {
	if len(assignments) == 0 {
		return constants.PriorityUpcoming
	}

	for _, a := range assignments {
		if a.Status == constants.AssignmentPending && now.Sub(a.NextDue) > 24*time.Hour {
			return constants.PriorityOverdue
		}
	}

	today := dayOf(now)
	for _, a := range assignments {
		if dayOf(a.NextDue.In(now.Location())).Equal(today) {
			return constants.PriorityDueToday
		}
	}

	allCompleted := true
	for _, a := range assignments {
		if a.Status != constants.AssignmentCompleted {
			allCompleted = false
			break
		}
	}
	if allCompleted {
		return constants.PriorityCompleted
	}
	return constants.PriorityUpcoming
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
