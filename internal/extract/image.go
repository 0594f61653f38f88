package extract

import (
	"context"
	"strings"

	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
	"github.com/andrei-iacobb/neatplan-sub000/internal/llm"
)

// extractImage delegates to the vision model for transcription. Timeouts and
// network errors surface as extraction failures; nothing is retried here.
func (e *Extractor) extractImage(ctx context.Context, data []byte, mimeType string) (entity.ExtractedText, error) {
	answer, err := e.vision.CompleteVision(ctx, llm.VisionInstruction, data, mimeType)
	if err != nil {
		return entity.ExtractedText{}, common.ExtractionFailureError(
			"transcribing the image failed; please retry", err)
	}
	if strings.TrimSpace(answer) == "" {
		return entity.ExtractedText{}, common.ExtractionFailureError(
			"the image contained no readable text", nil)
	}
	return entity.ExtractedText{Text: answer, Method: "vision"}, nil
}
