package validation

import (
	"regexp"
	"strings"

	"vidquiz/internal/domain"
)

// MaxVideoURLLength bounds the accepted video URL length.
const MaxVideoURLLength = 2048

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCreateQuizRequest validates the create quiz request
func (v *Validator) ValidateCreateQuizRequest(videoURL string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(videoURL) == "" {
		errors = append(errors, domain.NewMissingFieldError("video_url"))
	} else if len(videoURL) > MaxVideoURLLength {
		errors = append(errors, domain.NewOutOfRangeError("video_url", len(videoURL), 1, MaxVideoURLLength))
	}

	return errors
}

// ValidateQuizID validates a quiz ID path parameter
func (v *Validator) ValidateQuizID(quizID string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	if strings.TrimSpace(quizID) == "" {
		errors = append(errors, domain.NewMissingFieldError("quiz_id"))
	} else if !isValidULID(quizID) {
		errors = append(errors, domain.NewInvalidFormatError("quiz_id", quizID))
	}

	return errors
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	// ULID is 26 characters long, Crockford's Base32
	if len(s) != 26 {
		return false
	}
	validULID := regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
	return validULID.MatchString(s)
}
