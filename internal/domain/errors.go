package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema indicates the input table is missing required columns or
	// carries values the pipeline cannot accept. The run aborts.
	ErrSchema = errors.New("schema error")

	// ErrModelState indicates a prediction was requested from a model
	// that has not been trained.
	ErrModelState = errors.New("untrained model")

	// ErrInsufficientData indicates too few rows or distinct targets to
	// produce a meaningful metric.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrGeneration indicates the text-generation backend failed.
	ErrGeneration = errors.New("generation client error")
)

// StageError ties an error to the pipeline stage and input row it came from.
type StageError struct {
	Stage  string
	Line   int
	UserID string
	Err    error
}

func (e *StageError) Error() string {
	switch {
	case e.Line > 0 && e.UserID != "":
		return fmt.Sprintf("%s: line %d (user %s): %v", e.Stage, e.Line, e.UserID, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s: line %d: %v", e.Stage, e.Line, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
}

func (e *StageError) Unwrap() error { return e.Err }

// Warning is a data quality finding. It never aborts a run.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

func (w Warning) String() string { return w.Message }

// Warning codes reported by the validator.
const (
	WarnUnexpectedColumn = "unexpected_column"
	WarnUnknownApp       = "unknown_app"
	WarnOutOfRange       = "out_of_range"
	WarnMissingValues    = "missing_values"
	WarnDuplicates       = "duplicates"
	WarnFewSamples       = "few_samples"
	WarnShortDateSpan    = "short_date_span"
)
