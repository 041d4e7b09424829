package ingestion

import "fmt"

// ExtractionError represents a failure to turn a document into text
type ExtractionError struct {
	Source  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("extract %s: %s", e.Source, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
