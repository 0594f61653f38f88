package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/andrei-iacobb/neatplan-sub000/internal/common"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the application error taxonomy onto HTTP statuses. Unknown
// errors become 500 with a generic message so internals never leak.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL"
	message := "internal server error"

	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrFrequencyRequired),
		errors.Is(err, common.ErrNothingCompleted):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, common.ErrNoContent),
		errors.Is(err, common.ErrExtractionEmpty),
		errors.Is(err, common.ErrExtractionFailure):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrConflict),
		errors.Is(err, common.ErrHasDependentAssignments):
		status = http.StatusConflict
	}

	var app *common.AppError
	if errors.As(err, &app) {
		code = app.Code
		message = app.Message
	}
	if status == http.StatusInternalServerError {
		logger.Error("http.internal_error", "error", err)
		message = "internal server error"
		code = "INTERNAL"
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return common.NewAppError("INVALID_BODY", "request body is not valid JSON for this endpoint", common.ErrInvalidInput)
	}
	return nil
}
