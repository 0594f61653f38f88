package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andrei-iacobb/neatplan-sub000/constants"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline and engine error kinds. Messages built around these are user-facing
// and safe to display verbatim.
var (
	ErrUnsupportedFormat       = errors.New("unsupported document format")
	ErrExtractionFailure       = errors.New("text extraction failed")
	ErrNoContent               = errors.New("no task content found")
	ErrExtractionEmpty         = errors.New("no valid tasks extracted")
	ErrFrequencyRequired       = errors.New("frequency is required")
	ErrNothingCompleted        = errors.New("no completed tasks provided")
	ErrHasDependentAssignments = errors.New("schedule has dependent assignments")
	ErrNotFound                = errors.New("resource not found")
	ErrConflict                = errors.New("concurrent update conflict")
	ErrInvalidInput            = errors.New("invalid input")
)

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UnsupportedFormatError enumerates the accepted formats so the caller can show
// the user exactly what to upload instead.
func UnsupportedFormatError(mimeType string) *AppError {
	return NewAppError(
		"UNSUPPORTED_FORMAT",
		fmt.Sprintf("format %q is not supported; accepted formats: %s",
			mimeType, strings.Join(constants.AcceptedMIMETypes, ", ")),
		ErrUnsupportedFormat,
	)
}

func ExtractionFailureError(message string, cause error) *AppError {
	return NewAppError("EXTRACTION_FAILURE", message, errors.Join(ErrExtractionFailure, cause))
}

func NoContentError() *AppError {
	return NewAppError("NO_CONTENT", "the document was readable but contained no task section", ErrNoContent)
}

func ExtractionEmptyError() *AppError {
	return NewAppError("EXTRACTION_EMPTY", "no cleaning or maintenance tasks could be extracted from the document", ErrExtractionEmpty)
}

func FrequencyRequiredError() *AppError {
	return NewAppError("FREQUENCY_REQUIRED", "supply a frequency or choose a schedule with a suggested frequency", ErrFrequencyRequired)
}

func NothingCompletedError() *AppError {
	return NewAppError("NOTHING_COMPLETED", "at least one task must be marked complete", ErrNothingCompleted)
}

func HasDependentAssignmentsError(count int) *AppError {
	return NewAppError(
		"HAS_DEPENDENT_ASSIGNMENTS",
		fmt.Sprintf("schedule is attached to %d target(s); remove or reassign those assignments first", count),
		ErrHasDependentAssignments,
	)
}
