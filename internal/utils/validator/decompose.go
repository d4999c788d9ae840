package validator

import (
	"fmt"
	"strings"
)

// DefaultMaxBatchSize caps documents per decompose request.
const DefaultMaxBatchSize = 50

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RequestValidator checks decompose requests before they reach the service.
type RequestValidator struct {
	maxBatchSize int
}

func NewRequestValidator(maxBatchSize int) *RequestValidator {
	if maxBatchSize < 1 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &RequestValidator{maxBatchSize: maxBatchSize}
}

// ValidateDecomposeRequest returns all problems found with the request. An
// empty document list is valid; the decomposer simply returns no results.
func (v *RequestValidator) ValidateDecomposeRequest(documents []string, outputDir string) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(outputDir) == "" {
		errors = append(errors, ValidationError{
			Code:    "MISSING_OUTPUT_DIR",
			Message: "output directory is required",
			Field:   "output_dir",
		})
	}

	if len(documents) > v.maxBatchSize {
		errors = append(errors, ValidationError{
			Code:    "BATCH_TOO_LARGE",
			Message: fmt.Sprintf("at most %d documents per request", v.maxBatchSize),
			Field:   "documents",
		})
	}

	for i, doc := range documents {
		if strings.TrimSpace(doc) == "" {
			errors = append(errors, ValidationError{
				Code:    "EMPTY_DOCUMENT_REF",
				Message: fmt.Sprintf("document reference at index %d is empty", i),
				Field:   "documents",
			})
		}
	}

	return errors
}
