package middleware

import (
	"vidquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedQuizIDKey is the fiber locals key under which ValidateQuizID
// stores the checked path parameter for downstream handlers.
const ValidatedQuizIDKey = "validated_quiz_id"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateQuizID validates the quiz ID path parameter
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID := c.Params("id")

		if errors := vm.validator.ValidateQuizID(quizID); len(errors) > 0 {
			return errors // handled by the ErrorHandler
		}

		c.Locals(ValidatedQuizIDKey, quizID)
		return c.Next()
	}
}
