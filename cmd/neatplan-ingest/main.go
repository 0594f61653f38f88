// neatplan-ingest runs the ingestion pipeline once against a local file and
// prints the stored result as JSON. Useful for trying a document without
// standing up the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
	"github.com/andrei-iacobb/neatplan-sub000/internal/catalog"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
	"github.com/andrei-iacobb/neatplan-sub000/internal/extract"
	"github.com/andrei-iacobb/neatplan-sub000/internal/llm"
	"github.com/andrei-iacobb/neatplan-sub000/internal/llm/openai"
	"github.com/andrei-iacobb/neatplan-sub000/internal/pipeline"
	"github.com/andrei-iacobb/neatplan-sub000/internal/repository"
)

func main() {
	logger := common.NewLogger()

	if len(os.Args) < 2 {
		logger.Error("usage: neatplan-ingest <file> [schedule|tasks]")
		os.Exit(2)
	}
	path := os.Args[1]
	mode := pipeline.ModeSchedule
	if len(os.Args) >= 3 {
		mode = pipeline.Mode(os.Args[2])
		if !mode.Valid() {
			logger.Error("mode must be schedule or tasks", "arg", os.Args[2])
			os.Exit(2)
		}
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("read file", "path", path, "error", err)
		os.Exit(1)
	}
	mimeType := mimeFromExtension(path)
	if mimeType == "" {
		logger.Error("cannot determine document type from extension", "path", path)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := repository.Open(ctx, repository.Config{Path: cfg.Database.Path}, logger)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	scheduleRepo := repository.NewScheduleRepository(db, logger)
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

	doc := entity.RawDocument{
		Data:     data,
		MIMEType: mimeType,
		Filename: filepath.Base(path),
	}
	res, err := processor.IngestDocument(ctx, doc, mode)
	if err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(res)
}

func mimeFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return constants.MIMEPDF
	case ".docx":
		return constants.MIMEDocx
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}
