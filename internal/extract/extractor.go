// Package extract turns an uploaded document buffer into raw text, choosing a
// strategy per declared MIME type: the PDF text layer, the DOCX paragraph
// text, or a vision model transcription for images.
package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

// TextExtractor is the interface the pipeline depends on.
type TextExtractor interface {
	Extract(ctx context.Context, doc entity.RawDocument) (entity.ExtractedText, error)
}

// VisionClient transcribes an image into text via the language model.
type VisionClient interface {
	CompleteVision(ctx context.Context, instruction string, image []byte, mimeType string) (string, error)
}

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

type Extractor struct {
	cfg    Config
	runner Runner
	vision VisionClient
	logger *slog.Logger
}

func NewExtractor(cfg Config, vision VisionClient, logger *slog.Logger) *Extractor {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, vision: vision, logger: logger}
}

// Extract picks a strategy based on the declared MIME type. Failures are
// terminal for the invocation; the caller decides whether to tell the user.
func (e *Extractor) Extract(ctx context.Context, doc entity.RawDocument) (entity.ExtractedText, error) {
	start := time.Now()
	format := constants.MapMIMEToFormat(doc.MIMEType)
	e.logger.Debug("extract.start", "filename", doc.Filename, "mime", doc.MIMEType, "format", format, "bytes", len(doc.Data))

	var res entity.ExtractedText
	var err error
	switch format {
	case constants.PDF:
		res, err = e.extractPDF(ctx, doc.Data)
	case constants.DOCX:
		res, err = e.extractDOCX(doc.Data)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, doc.Data, doc.MIMEType)
	default:
		e.logger.Error("extract.unsupported_mime", "mime", doc.MIMEType)
		return entity.ExtractedText{}, common.UnsupportedFormatError(doc.MIMEType)
	}

	if err != nil {
		e.logger.Error("extract.failed", "filename", doc.Filename, "format", format, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return entity.ExtractedText{}, err
	}
	e.logger.Info("extract.ok", "filename", doc.Filename, "method", res.Method,
		"text_len", len(res.Text), "elapsed_ms", time.Since(start).Milliseconds())
	return res, nil
}
