package domain

import "errors"

var (
	// ErrGeneration reports a failed call to the generation capability.
	ErrGeneration = errors.New("generation failed")
	// ErrExtraction reports model output without a JSON object span.
	ErrExtraction = errors.New("no JSON object in model output")
	// ErrParse reports a JSON object span that is not valid JSON.
	ErrParse = errors.New("invalid JSON in model output")
	// ErrValidation reports a parsed record missing required fields.
	ErrValidation = errors.New("record failed validation")

	ErrEmptyRegion  = errors.New("region name is required")
	ErrEmptyRequest = errors.New("request text is required")
)

// FailureKind classifies err into a short label for logs and metric labels.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrGeneration):
		return "generation"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrEmptyRegion), errors.Is(err, ErrEmptyRequest), errors.Is(err, ErrUnsupportedAttachment):
		return "invalid_request"
	default:
		return "unknown"
	}
}

// IsRetrievalFailure reports whether err is one of the four failures a user
// can recover from by selecting the region again.
func IsRetrievalFailure(err error) bool {
	return errors.Is(err, ErrGeneration) ||
		errors.Is(err, ErrExtraction) ||
		errors.Is(err, ErrParse) ||
		errors.Is(err, ErrValidation)
}
