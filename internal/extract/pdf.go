package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
)

// extractPDF pulls the embedded text layer out of a PDF. A pure scan with no
// text layer is an extraction failure: the pipeline does not OCR PDFs.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (entity.ExtractedText, error) {
	tmpDir, err := os.MkdirTemp("", "np-pdf-*")
	if err != nil {
		return entity.ExtractedText{}, common.ExtractionFailureError("could not stage the uploaded PDF", err)
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			e.logger.Warn("temp dir cleanup failed", "path", path, "error", err)
		}
	}(tmpDir)

	path := filepath.Join(tmpDir, "upload.pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return entity.ExtractedText{}, common.ExtractionFailureError("could not stage the uploaded PDF", err)
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return entity.ExtractedText{}, common.ExtractionFailureError(
			"reading the PDF text layer failed; please retry",
			fmt.Errorf("pdftotext: %w (%s)", err, truncate(string(errb), 512)))
	}

	text := string(out)
	if strings.TrimSpace(text) == "" {
		return entity.ExtractedText{}, common.ExtractionFailureError(
			"the PDF has no extractable text layer (scanned PDFs are not supported)", nil)
	}

	return entity.ExtractedText{Text: text, Method: "pdf-text"}, nil
}
