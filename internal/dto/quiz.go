package dto

import "time"

// CreateQuizRequest is the request body for creating a quiz from a video.
// @Description Request body for creating a quiz from a video URL
type CreateQuizRequest struct {
	VideoURL string `json:"video_url" validate:"required"`
}

// QuestionResponse represents one multiple-choice question of a quiz.
type QuestionResponse struct {
	ID       string   `json:"id"`
	Position int      `json:"position"`
	Title    string   `json:"question_title"`
	Options  []string `json:"question_options"`
	Answer   string   `json:"answer"`
}

// QuizResponse represents a quiz without its questions.
type QuizResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"video_url"`
	Status       string    `json:"status"`
	FailureStage string    `json:"failure_stage,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// QuizDetailResponse represents a quiz together with its questions in
// generation order.
type QuizDetailResponse struct {
	QuizResponse
	Questions []QuestionResponse `json:"questions"`
}

// QuizListResponse is the response for listing a user's quizzes.
type QuizListResponse struct {
	Quizzes []QuizResponse `json:"quizzes"`
}

// ErrorResponse represents an error response
// @Description Error response structure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
