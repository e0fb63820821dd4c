package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"vidquiz/internal/domain"
	"vidquiz/internal/repository/models"
	"vidquiz/internal/util"

	"github.com/jmoiron/sqlx"
)

const quizSelectColumns = `
		id "id",
		user_id "user_id",
		title "title",
		description "description",
		video_url "video_url",
		status "status",
		failure_stage "failure_stage",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"`

const questionSelectColumns = `
		id "id",
		quiz_id "quiz_id",
		position "position",
		title "title",
		options "options",
		answer "answer",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"`

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.
// All methods resolve their executor from the context so they participate in
// a surrounding transaction when one is active.
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// CreateQuiz implements domain.QuizRepository
func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	modelQuiz := toModelQuiz(quiz)
	if modelQuiz == nil {
		return fmt.Errorf("cannot create nil quiz")
	}
	modelQuiz.ID = util.NewULID()
	modelQuiz.CreatedAt = time.Now()
	modelQuiz.UpdatedAt = modelQuiz.CreatedAt

	query := `INSERT INTO quizzes (
		id, user_id, title, description, video_url, status, failure_stage, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9
	)`

	executor := GetExecutor(ctx, a.db)
	_, err := executor.ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.UserID,
		modelQuiz.Title,
		modelQuiz.Description,
		modelQuiz.VideoURL,
		modelQuiz.Status,
		modelQuiz.FailureStage,
		modelQuiz.CreatedAt,
		modelQuiz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	quiz.ID = modelQuiz.ID
	quiz.CreatedAt = modelQuiz.CreatedAt
	quiz.UpdatedAt = modelQuiz.UpdatedAt
	return nil
}

// UpdateQuizMetadata implements domain.QuizRepository
func (a *QuizDatabaseAdapter) UpdateQuizMetadata(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot update nil quiz")
	}
	if quiz.ID == "" {
		return fmt.Errorf("cannot update quiz with empty ID")
	}
	quiz.UpdatedAt = time.Now()

	query := `UPDATE quizzes SET
		title = :1,
		description = :2,
		status = :3,
		failure_stage = :4,
		updated_at = :5
	WHERE id = :6
	AND deleted_at IS NULL`

	executor := GetExecutor(ctx, a.db)
	result, err := executor.ExecContext(ctx, query,
		quiz.Title,
		quiz.Description,
		string(quiz.Status),
		nullString(quiz.FailureStage),
		quiz.UpdatedAt,
		quiz.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quiz metadata: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("quiz with ID %s not found or not updated", quiz.ID)
	}
	return nil
}

// MarkQuizFailed implements domain.QuizRepository
func (a *QuizDatabaseAdapter) MarkQuizFailed(ctx context.Context, quizID string, stage domain.Stage) error {
	if quizID == "" {
		return fmt.Errorf("cannot mark quiz with empty ID as failed")
	}

	query := `UPDATE quizzes SET
		status = :1,
		failure_stage = :2,
		updated_at = :3
	WHERE id = :4
	AND deleted_at IS NULL`

	executor := GetExecutor(ctx, a.db)
	_, err := executor.ExecContext(ctx, query,
		string(domain.QuizStatusFailed),
		string(stage),
		time.Now(),
		quizID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark quiz %s as failed: %w", quizID, err)
	}
	return nil
}

// CreateQuestions implements domain.QuizRepository
func (a *QuizDatabaseAdapter) CreateQuestions(ctx context.Context, questions []*domain.Question) error {
	if len(questions) == 0 {
		return nil
	}

	query := `INSERT INTO questions (
		id, quiz_id, position, title, options, answer, created_at, updated_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8
	)`

	executor := GetExecutor(ctx, a.db)
	now := time.Now()
	for _, question := range questions {
		modelQuestion := toModelQuestion(question)
		if modelQuestion == nil {
			return fmt.Errorf("cannot create nil question")
		}
		modelQuestion.ID = util.NewULID()
		modelQuestion.CreatedAt = now
		modelQuestion.UpdatedAt = now

		_, err := executor.ExecContext(ctx, query,
			modelQuestion.ID,
			modelQuestion.QuizID,
			modelQuestion.Position,
			modelQuestion.Title,
			modelQuestion.Options,
			modelQuestion.Answer,
			modelQuestion.CreatedAt,
			modelQuestion.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create question at position %d: %w", question.Position, err)
		}

		question.ID = modelQuestion.ID
		question.CreatedAt = modelQuestion.CreatedAt
		question.UpdatedAt = modelQuestion.UpdatedAt
	}
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	query := `SELECT ` + quizSelectColumns + `
	FROM quizzes
	WHERE id = :1
	AND deleted_at IS NULL`

	executor := GetExecutor(ctx, a.db)
	err := executor.GetContext(ctx, &modelQuiz, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz), nil
}

// GetQuestionsByQuizID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuestionsByQuizID(ctx context.Context, quizID string) ([]*domain.Question, error) {
	var modelQuestions []*models.Question
	query := `SELECT ` + questionSelectColumns + `
	FROM questions
	WHERE quiz_id = :1
	AND deleted_at IS NULL
	ORDER BY position ASC`

	executor := GetExecutor(ctx, a.db)
	err := executor.SelectContext(ctx, &modelQuestions, query, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions for quiz %s: %w", quizID, err)
	}

	questions := make([]*domain.Question, 0, len(modelQuestions))
	for _, mq := range modelQuestions {
		questions = append(questions, toDomainQuestion(mq))
	}
	return questions, nil
}

// ListQuizzesByUser implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListQuizzesByUser(ctx context.Context, userID string) ([]*domain.Quiz, error) {
	var modelQuizzes []*models.Quiz
	query := `SELECT ` + quizSelectColumns + `
	FROM quizzes
	WHERE user_id = :1
	AND deleted_at IS NULL
	ORDER BY created_at DESC`

	executor := GetExecutor(ctx, a.db)
	err := executor.SelectContext(ctx, &modelQuizzes, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes for user %s: %w", userID, err)
	}

	quizzes := make([]*domain.Quiz, 0, len(modelQuizzes))
	for _, mq := range modelQuizzes {
		quizzes = append(quizzes, toDomainQuiz(mq))
	}
	return quizzes, nil
}

// DeleteQuiz implements domain.QuizRepository. The quiz and its questions are
// soft-deleted together; callers wrap this in a transaction when atomicity
// with other writes matters.
func (a *QuizDatabaseAdapter) DeleteQuiz(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("cannot delete quiz with empty ID")
	}
	now := time.Now()
	executor := GetExecutor(ctx, a.db)

	quizQuery := `UPDATE quizzes SET
		deleted_at = :1,
		updated_at = :2
	WHERE id = :3
	AND deleted_at IS NULL`

	result, err := executor.ExecContext(ctx, quizQuery, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("quiz with ID %s not found", id)
	}

	questionQuery := `UPDATE questions SET
		deleted_at = :1,
		updated_at = :2
	WHERE quiz_id = :3
	AND deleted_at IS NULL`

	if _, err := executor.ExecContext(ctx, questionQuery, now, now, id); err != nil {
		return fmt.Errorf("failed to delete questions of quiz %s: %w", id, err)
	}
	return nil
}

// Helper functions for model conversion

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	if m == nil {
		return nil
	}
	quiz := &domain.Quiz{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		VideoURL:    m.VideoURL,
		Status:      domain.QuizStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.FailureStage.Valid {
		quiz.FailureStage = m.FailureStage.String
	}
	if m.DeletedAt.Valid {
		deletedAt := m.DeletedAt.Time
		quiz.DeletedAt = &deletedAt
	}
	return quiz
}

func toModelQuiz(d *domain.Quiz) *models.Quiz {
	if d == nil {
		return nil
	}
	return &models.Quiz{
		ID:           d.ID,
		UserID:       d.UserID,
		Title:        d.Title,
		Description:  d.Description,
		VideoURL:     d.VideoURL,
		Status:       string(d.Status),
		FailureStage: nullString(d.FailureStage),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toDomainQuestion(m *models.Question) *domain.Question {
	if m == nil {
		return nil
	}
	question := &domain.Question{
		ID:        m.ID,
		QuizID:    m.QuizID,
		Position:  m.Position,
		Title:     m.Title,
		Options:   []string(m.Options),
		Answer:    m.Answer,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		deletedAt := m.DeletedAt.Time
		question.DeletedAt = &deletedAt
	}
	return question
}

func toModelQuestion(d *domain.Question) *models.Question {
	if d == nil {
		return nil
	}
	return &models.Question{
		ID:       d.ID,
		QuizID:   d.QuizID,
		Position: d.Position,
		Title:    d.Title,
		Options:  models.StringSlice(d.Options),
		Answer:   d.Answer,
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
