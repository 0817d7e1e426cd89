package domain

import "errors"

// Domain errors
var (
	// ErrSentenceSplitterUnavailable is the configuration error raised when sentence
	// alignment is requested without a sentence splitter.
	ErrSentenceSplitterUnavailable = errors.New("sentence splitter unavailable: sentence alignment requires one, use paragraph mode instead")
	ErrUnsupportedFormat           = errors.New("unsupported file format")
	ErrInvalidAlignmentMode        = errors.New("invalid alignment mode")
	ErrInvalidImageMatchMode       = errors.New("invalid image match mode")
	ErrUnsupportedLanguage         = errors.New("unsupported language code")
	ErrInvalidToken                = errors.New("invalid token")
	ErrSourceNotFound              = errors.New("source document not found")
	ErrStorageNotConfigured        = errors.New("source storage not configured")
	ErrInvalidFile                 = errors.New("invalid file")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
