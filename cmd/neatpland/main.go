package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrei-iacobb/neatplan-sub000/internal/assignment"
	"github.com/andrei-iacobb/neatplan-sub000/internal/catalog"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/export"
	"github.com/andrei-iacobb/neatplan-sub000/internal/extract"
	"github.com/andrei-iacobb/neatplan-sub000/internal/llm"
	"github.com/andrei-iacobb/neatplan-sub000/internal/llm/openai"
	"github.com/andrei-iacobb/neatplan-sub000/internal/pipeline"
	"github.com/andrei-iacobb/neatplan-sub000/internal/repository"
	"github.com/andrei-iacobb/neatplan-sub000/internal/server"
)

func main() {
	logger := common.NewLogger()

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{Path: cfg.Database.Path}, logger)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	if err := repository.HealthCheck(ctx, db, 3*time.Second, logger); err != nil {
		logger.Error("database health failed", "error", err)
		os.Exit(1)
	}

	scheduleRepo := repository.NewScheduleRepository(db, logger)
	assignmentRepo := repository.NewAssignmentRepository(db, logger)

	llmClient := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		VisionModel: cfg.LLM.VisionModel,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	extractor := extract.NewExtractor(extract.Config{Pdftotext: cfg.Pipeline.Pdftotext}, llmClient, logger)
	taskExtractor := llm.NewTaskExtractor(llmClient, logger)
	catalogSvc := catalog.NewService(scheduleRepo, logger)
	processor := pipeline.NewProcessor(extractor, taskExtractor, catalogSvc, logger)
	engine := assignment.NewEngine(assignmentRepo, scheduleRepo, logger)
	exporter := export.NewService(assignmentRepo, scheduleRepo, logger)

	srv := server.New(cfg.Server.HTTPAddr, server.Deps{
		Processor:   processor,
		Catalog:     catalogSvc,
		Engine:      engine,
		Exporter:    exporter,
		Assignments: assignmentRepo,
		DB:          db,
	}, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
