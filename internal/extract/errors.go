package extract

import (
	"errors"
	"fmt"
)

// MinContentLength is the minimum cleaned-text length accepted for analysis.
const MinContentLength = 50

// ErrInsufficientContent indicates the cleaned text was too short to analyze.
var ErrInsufficientContent = fmt.Errorf("extracted text is shorter than %d characters", MinContentLength)

// ExtractionError wraps a parser failure with a user-facing remediation suggestion.
type ExtractionError struct {
	Format     string
	Suggestion string
	Err        error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("extract %s failed", e.Format)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func extractionError(format, suggestion string, err error) error {
	return &ExtractionError{Format: format, Suggestion: suggestion, Err: err}
}

// AsExtractionError unwraps err into an *ExtractionError if possible.
func AsExtractionError(err error) (*ExtractionError, bool) {
	var ee *ExtractionError
	ok := errors.As(err, &ee)
	return ee, ok
}
