package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

func parseID(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(key))
	if err != nil {
		return uuid.Nil, common.NewAppError("INVALID_ID", key+" must be a UUID", common.ErrInvalidInput)
	}
	return id, nil
}

type createScheduleRequest struct {
	Title string `json:"title"`
	Tasks []struct {
		Description string `json:"description"`
		Frequency   string `json:"frequency"`
		Notes       string `json:"notes"`
	} `json:"tasks"`
}

// handleCreateSchedule creates a schedule by hand, without a source document.
// Hand-made schedules carry no detected frequency.
func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	tasks := make([]entity.CandidateTask, len(req.Tasks))
	for i, t := range req.Tasks {
		tasks[i] = entity.CandidateTask{
			Description: t.Description,
			Frequency:   t.Frequency,
			Notes:       t.Notes,
		}
	}
	sched, err := s.catalog.CreateSchedule(r.Context(), req.Title, nil, tasks)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, sched)
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	list, err := s.catalog.ListSchedules(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	sched, err := s.catalog.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

type updateScheduleRequest struct {
	Title              *string `json:"title"`
	SuggestedFrequency *string `json:"suggested_frequency"`
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req updateScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	var suggested *constants.Frequency
	if req.SuggestedFrequency != nil {
		f := constants.Frequency(*req.SuggestedFrequency)
		suggested = &f
	}
	if err := s.catalog.UpdateSchedule(r.Context(), id, req.Title, suggested); err != nil {
		writeError(w, s.logger, err)
		return
	}
	sched, err := s.catalog.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.catalog.DeleteSchedule(r.Context(), id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type taskRequest struct {
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
	Notes       *string `json:"notes"`
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	desc := ""
	if req.Description != nil {
		desc = *req.Description
	}
	task, err := s.catalog.AddTask(r.Context(), id, desc, req.Frequency, req.Notes)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	taskID, err := parseID(r, "taskID")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.catalog.UpdateTask(r.Context(), id, taskID, req.Description, req.Frequency, req.Notes); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	taskID, err := parseID(r, "taskID")
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if err := s.catalog.DeleteTask(r.Context(), id, taskID); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
