package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Request validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Pipeline stage errors
	CodeInvalidURL    ErrorCode = "INVALID_URL"
	CodeAcquisition   ErrorCode = "ACQUISITION_ERROR"
	CodeTranscription ErrorCode = "TRANSCRIPTION_ERROR"
	CodeGeneration    ErrorCode = "GENERATION_ERROR"

	CodeQuizNotFound ErrorCode = "QUIZ_NOT_FOUND"
)

// Stage identifies one step of the quiz creation pipeline.
type Stage string

const (
	StageResolving    Stage = "resolving"
	StageAcquiring    Stage = "acquiring"
	StageTranscribing Stage = "transcribing"
	StageGenerating   Stage = "generating"
	StagePersisting   Stage = "persisting"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithContext attaches diagnostic context to the error.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("Quiz not found with ID: %s", quizID), nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

// NewInvalidURLError reports a URL that is not a recognizable video URL.
// It is terminal for the pipeline and never retried.
func NewInvalidURLError(rawURL string) *DomainError {
	return NewError(CodeInvalidURL, "Not a recognizable video URL", nil).
		WithContext("url", rawURL).
		WithContext("stage", string(StageResolving))
}

// NewAcquisitionError reports a failed audio download or transcode.
func NewAcquisitionError(cause error) *DomainError {
	return NewError(CodeAcquisition, "Failed to acquire audio from video source", cause).
		WithContext("stage", string(StageAcquiring))
}

// NewTranscriptionError reports a failed speech-to-text run.
func NewTranscriptionError(cause error) *DomainError {
	return NewError(CodeTranscription, "Failed to transcribe audio", cause).
		WithContext("stage", string(StageTranscribing))
}

// NewGenerationError reports an exhausted question-generation retry budget.
// attempts is the number of model calls made before giving up.
func NewGenerationError(attempts int, cause error) *DomainError {
	return NewError(CodeGeneration, "Model failed to produce a valid quiz payload", cause).
		WithContext("stage", string(StageGenerating)).
		WithContext("attempts", attempts)
}

// ValidationError describes a single invalid request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates per-field validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", e[0].Error())
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Message: "is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("has invalid format: %s", value)}
}

func NewOutOfRangeError(field string, got, min, max int) ValidationError {
	return ValidationError{Field: field, Message: fmt.Sprintf("length %d is out of range [%d, %d]", got, min, max)}
}
