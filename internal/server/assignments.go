package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
)

type createAssignmentRequest struct {
	ScheduleID string  `json:"schedule_id"`
	TargetKind string  `json:"target_kind"`
	TargetID   string  `json:"target_id"`
	Frequency  *string `json:"frequency"`
}

func (s *Server) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		writeError(w, s.logger, common.NewAppError("INVALID_ID", "schedule_id must be a UUID", common.ErrInvalidInput))
		return
	}

	var freq *constants.Frequency
	if req.Frequency != nil {
		f := constants.Frequency(strings.ToUpper(strings.TrimSpace(*req.Frequency)))
		freq = &f
	}
	kind := constants.TargetKind(strings.ToUpper(strings.TrimSpace(req.TargetKind)))

	a, err := s.engine.Assign(r.Context(), scheduleID, kind, req.TargetID, freq)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.engine.Delete(r.Context(), id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeAssignmentRequest struct {
	CompletedTaskIDs []string `json:"completed_task_ids"`
	Notes            string   `json:"notes"`
}

func (s *Server) handleCompleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req completeAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	taskIDs := make([]uuid.UUID, 0, len(req.CompletedTaskIDs))
	for _, raw := range req.CompletedTaskIDs {
		tid, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, s.logger, common.NewAppError("INVALID_ID",
				"completed_task_ids must be UUIDs", common.ErrInvalidInput))
			return
		}
		taskIDs = append(taskIDs, tid)
	}

	a, err := s.engine.Complete(r.Context(), id, taskIDs, req.Notes)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handlePauseAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.engine.Pause(r.Context(), id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResumeAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.engine.Resume(r.Context(), id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCompletions(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	list, err := s.repo.ListCompletions(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleTargetAssignments(w http.ResponseWriter, r *http.Request) {
	kind := constants.TargetKind(strings.ToUpper(r.PathValue("kind")))
	if !kind.Valid() {
		writeError(w, s.logger, common.NewAppError("INVALID_TARGET",
			"target kind must be room or equipment", common.ErrInvalidInput))
		return
	}
	targetID := r.PathValue("targetID")

	views, priority, err := s.engine.AssignmentsForTarget(r.Context(), kind, targetID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"priority":    priority,
		"assignments": views,
	})
}

func (s *Server) handleListCleaningTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.ListCleaningTasks(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleExportAssignments(w http.ResponseWriter, r *http.Request) {
	xlsx, err := s.exporter.ExportAssignmentsXLSX(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="assignments.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(xlsx)
}
