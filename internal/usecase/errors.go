package usecase

import (
	"errors"

	"job-tracker/internal/pkg/validate"
)

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotConfirmed       = errors.New("action not confirmed")
	ErrBusy               = errors.New("another request for this item is in progress")
	ErrNoBlob             = errors.New("no file associated with this resume")
	ErrUnparseableBlobURL = errors.New("unable to extract file path from url")
	ErrInternal           = errors.New("internal error")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields validate.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

func newValidationError(fields validate.FieldErrors) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// StepError tags a store failure with the pipeline step that produced it.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step name of err, or "" when err is not a StepError.
func FailedStep(err error) string {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}

// IsConsistencyError reports errors raised because a record's blob
// reference cannot be reconciled with the blob store.
func IsConsistencyError(err error) bool {
	return errors.Is(err, ErrNoBlob) || errors.Is(err, ErrUnparseableBlobURL)
}
