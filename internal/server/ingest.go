package server

import (
	"io"
	"net/http"

	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
	"github.com/andrei-iacobb/neatplan-sub000/internal/entity"
	"github.com/andrei-iacobb/neatplan-sub000/internal/pipeline"
)

// Uploads are bounded; schedule documents are a few pages at most.
const maxUploadBytes = 25 << 20

// handleIngest accepts a multipart upload ("document" part) plus a "mode"
// field and runs the full ingestion pipeline on it.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, s.logger, common.NewAppError("INVALID_UPLOAD",
			"expected a multipart form with a document part", common.ErrInvalidInput))
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, s.logger, common.NewAppError("INVALID_UPLOAD",
			"missing document part", common.ErrInvalidInput))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	mode := pipeline.Mode(r.FormValue("mode"))
	if mode == "" {
		mode = pipeline.ModeSchedule
	}

	mimeType := header.Header.Get("Content-Type")
	doc := entity.RawDocument{
		Data:     data,
		MIMEType: mimeType,
		Filename: header.Filename,
	}

	res, err := s.processor.IngestDocument(r.Context(), doc, mode)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
