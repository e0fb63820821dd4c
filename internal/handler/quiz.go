package handler

import (
	"vidquiz/internal/domain"
	"vidquiz/internal/dto"
	"vidquiz/internal/logger"
	"vidquiz/internal/middleware"
	"vidquiz/internal/service"
	"vidquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// userIDFromLocals extracts the authenticated user ID set by the auth middleware.
func userIDFromLocals(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return "", domain.NewUnauthorizedError("Authentication required")
	}
	return userID, nil
}

// quizIDFromLocals extracts the quiz ID checked by the validation middleware.
func quizIDFromLocals(c *fiber.Ctx) (string, error) {
	quizID, ok := c.Locals(middleware.ValidatedQuizIDKey).(string)
	if !ok || quizID == "" {
		return "", domain.ValidationErrors{domain.NewMissingFieldError("quiz_id")}
	}
	return quizID, nil
}

// CreateQuiz godoc
// @Summary Create a quiz from a video
// @Description Downloads the video's audio, transcribes it and generates a 10-question multiple-choice quiz
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.CreateQuizRequest true "Video URL"
// @Success 201 {object} dto.QuizDetailResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}

	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", "malformed JSON")}
	}

	if errs := h.validator.ValidateCreateQuizRequest(req.VideoURL); len(errs) > 0 {
		return errs
	}

	quiz, err := h.service.CreateQuiz(c.Context(), userID, &req)
	if err != nil {
		logger.Get().Error("Failed to create quiz",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("videoURL", req.VideoURL),
		)
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(quiz)
}

// GetQuiz godoc
// @Summary Get a quiz with its questions
// @Description Returns one of the caller's quizzes including its questions in generation order
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}

	quizID, err := quizIDFromLocals(c)
	if err != nil {
		return err
	}

	quiz, err := h.service.GetQuiz(c.Context(), userID, quizID)
	if err != nil {
		return err
	}

	return c.JSON(quiz)
}

// ListQuizzes godoc
// @Summary List the caller's quizzes
// @Description Returns all quizzes owned by the authenticated user, newest first
// @Tags quiz
// @Accept json
// @Produce json
// @Success 200 {object} dto.QuizListResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}

	quizzes, err := h.service.ListQuizzes(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(quizzes)
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Description Deletes one of the caller's quizzes together with its questions
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	userID, err := userIDFromLocals(c)
	if err != nil {
		return err
	}

	quizID, err := quizIDFromLocals(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteQuiz(c.Context(), userID, quizID); err != nil {
		return err
	}

	return c.JSON(dto.MessageResponse{Message: "Quiz deleted"})
}
