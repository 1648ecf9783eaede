package services

import (
	"errors"
	"fmt"
)

// ErrInferenceUnavailable signals that no inference backend is configured. It
// only drives the achievement fallback and never reaches callers.
var ErrInferenceUnavailable = errors.New("inference service unavailable")

type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q: expected pdf or docx", e.Format)
}

type ExtractionError struct {
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// AnalysisError aborts a pipeline run. No partial result accompanies it.
type AnalysisError struct {
	Step string
	Err  error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("resume analysis failed at %s: %v", e.Step, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

type MatchingUnavailableError struct {
	Err error
}

func (e *MatchingUnavailableError) Error() string {
	return fmt.Sprintf("job matching unavailable: %v", e.Err)
}

func (e *MatchingUnavailableError) Unwrap() error { return e.Err }
