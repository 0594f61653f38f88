// Package export produces XLSX reports of assignments for facility audits.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/andrei-iacobb/neatplan-sub000/internal/assignment"
	"github.com/andrei-iacobb/neatplan-sub000/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	assignments repository.AssignmentRepository
	schedules   repository.ScheduleRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(assignments repository.AssignmentRepository, schedules repository.ScheduleRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{assignments: assignments, schedules: schedules, logger: logger, now: time.Now}
}

// ExportAssignmentsXLSX returns an XLSX workbook (as bytes) listing every
// assignment with its schedule title, derived status, and estimated visit
// duration.
func (s *Service) ExportAssignmentsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	list, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Assignments"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Schedule",
		"Target Kind",
		"Target",
		"Frequency",
		"Next Due",
		"Last Completed",
		"Status",
		"Estimated Duration",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	// Schedules repeat across assignments; fetch each once.
	titles := map[string]string{}
	durations := map[string]string{}
	now := s.now()

	row := 2
	for _, a := range list {
		key := a.ScheduleID.String()
		if _, ok := titles[key]; !ok {
			sched, err := s.schedules.GetByID(ctx, a.ScheduleID)
			if err != nil {
				titles[key] = key
				durations[key] = ""
			} else {
				titles[key] = sched.Title
				durations[key] = assignment.FormatMinutes(assignment.EstimateDurationMinutes(sched.Tasks))
			}
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, titles[key])
		write(2, string(a.TargetKind))
		write(3, a.TargetID)
		write(4, string(a.Frequency))
		write(5, a.NextDue.Format("2006-01-02"))
		if a.LastCompleted != nil {
			write(6, a.LastCompleted.Format("2006-01-02"))
		} else {
			write(6, "")
		}
		write(7, string(assignment.DeriveStatus(a, now)))
		write(8, durations[key])

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 36) // schedule title
	_ = f.SetColWidth(sheet, "B", "B", 12)
	_ = f.SetColWidth(sheet, "C", "C", 24)
	_ = f.SetColWidth(sheet, "D", "D", 12)
	_ = f.SetColWidth(sheet, "E", "F", 14) // dates
	_ = f.SetColWidth(sheet, "G", "G", 14)
	_ = f.SetColWidth(sheet, "H", "H", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(list),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
