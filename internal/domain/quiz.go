package domain

import (
	"time"
)

// QuizStatus tracks a quiz through its creation pipeline.
type QuizStatus string

const (
	// QuizStatusProcessing marks the placeholder row committed before any
	// network I/O begins. A crash mid-pipeline leaves the row in this state.
	QuizStatusProcessing QuizStatus = "processing"
	// QuizStatusReady marks a quiz whose questions were generated and persisted.
	QuizStatusReady QuizStatus = "ready"
	// QuizStatusFailed marks a run that failed after the placeholder commit.
	// The row is kept as an audit trail of the attempt.
	QuizStatusFailed QuizStatus = "failed"
)

// Sentinel title/description used while the pipeline has not yet produced
// real source metadata.
const (
	PlaceholderTitle       = "Quiz is being created..."
	PlaceholderDescription = "Transcription in progress..."
)

// Quiz represents a quiz derived from one video, owned by one user.
type Quiz struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	VideoURL     string
	Status       QuizStatus
	FailureStage string // set only when Status is QuizStatusFailed
	Questions    []*Question
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// NewPlaceholderQuiz creates the initial quiz row for a pipeline run.
func NewPlaceholderQuiz(userID, videoURL string) *Quiz {
	now := time.Now()
	return &Quiz{
		UserID:      userID,
		Title:       PlaceholderTitle,
		Description: PlaceholderDescription,
		VideoURL:    videoURL,
		Status:      QuizStatusProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate validates the quiz
func (q *Quiz) Validate() error {
	if q.UserID == "" {
		return NewError(CodeValidation, "user ID is required", nil)
	}
	if q.Title == "" {
		return NewError(CodeValidation, "title is required", nil)
	}
	if q.VideoURL == "" {
		return NewError(CodeValidation, "video URL is required", nil)
	}
	return nil
}

// Question represents one multiple-choice question of a quiz.
// Options holds exactly 4 pairwise-distinct strings and Answer equals one of
// them verbatim; both are enforced by Validate and by payload validation
// before any Question is built.
type Question struct {
	ID        string
	QuizID    string
	Position  int // generation order within the quiz
	Title     string
	Options   []string
	Answer    string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Validate validates the question
func (q *Question) Validate() error {
	if q.QuizID == "" {
		return NewError(CodeValidation, "quiz ID is required", nil)
	}
	if q.Title == "" {
		return NewError(CodeValidation, "question title is required", nil)
	}
	if len(q.Options) != PayloadOptionCount {
		return NewError(CodeValidation, "question must have exactly 4 options", nil)
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return NewError(CodeValidation, "question options must be distinct", nil)
		}
		seen[opt] = struct{}{}
	}
	if _, ok := seen[q.Answer]; !ok {
		return NewError(CodeValidation, "answer must match one of the options", nil)
	}
	return nil
}
