// Package server exposes the ingestion pipeline, schedule catalog, and
// assignment engine over a JSON HTTP API.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/andrei-iacobb/neatplan-sub000/internal/assignment"
	"github.com/andrei-iacobb/neatplan-sub000/internal/catalog"
	"github.com/andrei-iacobb/neatplan-sub000/internal/export"
	"github.com/andrei-iacobb/neatplan-sub000/internal/pipeline"
	"github.com/andrei-iacobb/neatplan-sub000/internal/repository"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	processor *pipeline.Processor
	catalog   *catalog.Service
	engine    *assignment.Engine
	exporter  *export.Service
	repo      repository.AssignmentRepository
	db        *sqlx.DB
}

type Deps struct {
	Processor   *pipeline.Processor
	Catalog     *catalog.Service
	Engine      *assignment.Engine
	Exporter    *export.Service
	Assignments repository.AssignmentRepository
	DB          *sqlx.DB
}

func New(addr string, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:    logger,
		processor: deps.Processor,
		catalog:   deps.Catalog,
		engine:    deps.Engine,
		exporter:  deps.Exporter,
		repo:      deps.Assignments,
		db:        deps.DB,
	}

	mux := http.NewServeMux()
	s.routes(mux)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.logRequests(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/documents/ingest", s.handleIngest)

	mux.HandleFunc("GET /api/schedules", s.handleListSchedules)
	mux.HandleFunc("POST /api/schedules", s.handleCreateSchedule)
	mux.HandleFunc("GET /api/schedules/{id}", s.handleGetSchedule)
	mux.HandleFunc("PATCH /api/schedules/{id}", s.handleUpdateSchedule)
	mux.HandleFunc("DELETE /api/schedules/{id}", s.handleDeleteSchedule)
	mux.HandleFunc("POST /api/schedules/{id}/tasks", s.handleAddTask)
	mux.HandleFunc("PATCH /api/schedules/{id}/tasks/{taskID}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/schedules/{id}/tasks/{taskID}", s.handleDeleteTask)

	mux.HandleFunc("GET /api/tasks", s.handleListCleaningTasks)

	mux.HandleFunc("POST /api/assignments", s.handleCreateAssignment)
	mux.HandleFunc("DELETE /api/assignments/{id}", s.handleDeleteAssignment)
	mux.HandleFunc("POST /api/assignments/{id}/complete", s.handleCompleteAssignment)
	mux.HandleFunc("POST /api/assignments/{id}/pause", s.handlePauseAssignment)
	mux.HandleFunc("POST /api/assignments/{id}/resume", s.handleResumeAssignment)
	mux.HandleFunc("GET /api/assignments/{id}/completions", s.handleListCompletions)

	mux.HandleFunc("GET /api/targets/{kind}/{targetID}/assignments", s.handleTargetAssignments)

	mux.HandleFunc("GET /api/reports/assignments.xlsx", s.handleExportAssignments)
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http.request",
			"method", r.Method, "path", r.URL.Path, "elapsed_ms", time.Since(start).Milliseconds())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := repository.HealthCheck(r.Context(), s.db, 2*time.Second, s.logger); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
