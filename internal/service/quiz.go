package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"vidquiz/internal/cache"
	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/dto"
	"vidquiz/internal/logger"
	"vidquiz/internal/media"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// QuizService defines the interface for quiz-related operations
type QuizService interface {
	// CreateQuiz runs the full video-to-quiz pipeline synchronously and
	// returns the finished quiz with its questions.
	CreateQuiz(ctx context.Context, userID string, req *dto.CreateQuizRequest) (*dto.QuizDetailResponse, error)
	GetQuiz(ctx context.Context, userID string, quizID string) (*dto.QuizDetailResponse, error)
	ListQuizzes(ctx context.Context, userID string) (*dto.QuizListResponse, error)
	DeleteQuiz(ctx context.Context, userID string, quizID string) error
}

// quizService implements QuizService
type quizService struct {
	repo        domain.QuizRepository
	txManager   domain.TransactionManager
	downloader  domain.AudioDownloader
	transcriber domain.Transcriber
	generator   domain.QuestionGenerator
	cache       domain.Cache
	cfg         *config.Config
	runSlots    *semaphore.Weighted // bounds concurrent pipeline runs
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	repo domain.QuizRepository,
	txManager domain.TransactionManager,
	downloader domain.AudioDownloader,
	transcriber domain.Transcriber,
	generator domain.QuestionGenerator,
	cacheAdapter domain.Cache,
	cfg *config.Config,
) QuizService {
	maxRuns := cfg.Pipeline.MaxConcurrentRuns
	if maxRuns <= 0 {
		maxRuns = 1
	}
	return &quizService{
		repo:        repo,
		txManager:   txManager,
		downloader:  downloader,
		transcriber: transcriber,
		generator:   generator,
		cache:       cacheAdapter,
		cfg:         cfg,
		runSlots:    semaphore.NewWeighted(maxRuns),
	}
}

// CreateQuiz implements QuizService. The placeholder row is committed before
// any network I/O, so every pipeline run leaves a persistent trace even when
// a later stage fails or the process dies.
func (s *quizService) CreateQuiz(ctx context.Context, userID string, req *dto.CreateQuizRequest) (*dto.QuizDetailResponse, error) {
	appLogger := logger.Get()

	videoID, ok := media.ResolveVideoID(req.VideoURL)
	if !ok {
		return nil, domain.NewInvalidURLError(req.VideoURL)
	}
	canonicalURL := media.CanonicalWatchURL(videoID)

	if err := s.runSlots.Acquire(ctx, 1); err != nil {
		return nil, domain.NewInternalError("Pipeline slot acquisition interrupted", err)
	}
	defer s.runSlots.Release(1)

	quiz := domain.NewPlaceholderQuiz(userID, canonicalURL)
	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("Failed to create placeholder quiz", err)
	}
	appLogger.Info("Pipeline run started",
		zap.String("quizID", quiz.ID),
		zap.String("userID", userID),
		zap.String("videoID", videoID))

	asset, err := s.downloader.Download(ctx, canonicalURL)
	if err != nil {
		s.failQuiz(ctx, quiz.ID, domain.StageAcquiring)
		return nil, err
	}
	defer func() {
		if removeErr := os.Remove(asset.Path); removeErr != nil && !os.IsNotExist(removeErr) {
			appLogger.Warn("Failed to remove temporary audio file",
				zap.String("path", asset.Path), zap.Error(removeErr))
		}
	}()

	transcript, err := s.transcriber.Transcribe(ctx, asset.Path)
	if err != nil {
		s.failQuiz(ctx, quiz.ID, domain.StageTranscribing)
		return nil, err
	}

	payload, err := s.generator.Generate(ctx, transcript)
	if err != nil {
		s.failQuiz(ctx, quiz.ID, domain.StageGenerating)
		return nil, err
	}

	quiz.Title = asset.Metadata.Title
	if quiz.Title == "" {
		quiz.Title = canonicalURL
	}
	quiz.Description = asset.Metadata.Description
	quiz.Status = domain.QuizStatusReady
	quiz.FailureStage = ""
	quiz.Questions = payload.Questions(quiz.ID)

	// Questions and metadata land in one transaction so a ready quiz is
	// never observable without its full question set.
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateQuestions(txCtx, quiz.Questions); err != nil {
			return err
		}
		return s.repo.UpdateQuizMetadata(txCtx, quiz)
	})
	if err != nil {
		s.failQuiz(ctx, quiz.ID, domain.StagePersisting)
		return nil, domain.NewInternalError("Failed to persist generated quiz", err)
	}

	appLogger.Info("Pipeline run completed",
		zap.String("quizID", quiz.ID),
		zap.Int("questionCount", len(quiz.Questions)))
	return toQuizDetailResponse(quiz, quiz.Questions), nil
}

// failQuiz records the failing stage on the placeholder row. The write uses a
// context detached from the request so a canceled pipeline still leaves an
// audit trail.
func (s *quizService) failQuiz(ctx context.Context, quizID string, stage domain.Stage) {
	markCtx := context.WithoutCancel(ctx)
	if err := s.repo.MarkQuizFailed(markCtx, quizID, stage); err != nil {
		logger.Get().Error("Failed to mark quiz as failed",
			zap.String("quizID", quizID),
			zap.String("stage", string(stage)),
			zap.Error(err))
		return
	}
	logger.Get().Warn("Pipeline run failed",
		zap.String("quizID", quizID),
		zap.String("stage", string(stage)))
}

// GetQuiz implements QuizService
func (s *quizService) GetQuiz(ctx context.Context, userID string, quizID string) (*dto.QuizDetailResponse, error) {
	quiz, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	if quiz.UserID != userID {
		return nil, domain.NewForbiddenError("Quiz belongs to another user")
	}

	cacheKey := cache.QuizDetailKey(quizID)
	if s.cache != nil {
		cached, cacheErr := s.cache.Get(ctx, cacheKey)
		if cacheErr == nil {
			var response dto.QuizDetailResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return &response, nil
			}
			logger.Get().Warn("Failed to unmarshal cached quiz detail, falling back to DB",
				zap.String("quizID", quizID))
		} else if !errors.Is(cacheErr, domain.ErrCacheMiss) {
			logger.Get().Error("Cache lookup failed for quiz detail",
				zap.String("quizID", quizID), zap.Error(cacheErr))
		}
	}

	questions, err := s.repo.GetQuestionsByQuizID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to get quiz questions", err)
	}

	response := toQuizDetailResponse(quiz, questions)

	// Only ready quizzes are cached; processing and failed rows would go
	// stale the moment their pipeline run advances.
	if s.cache != nil && quiz.Status == domain.QuizStatusReady {
		if data, marshalErr := json.Marshal(response); marshalErr == nil {
			if setErr := s.cache.Set(ctx, cacheKey, string(data), s.cfg.Cache.QuizDetailTTL); setErr != nil {
				logger.Get().Warn("Failed to cache quiz detail",
					zap.String("quizID", quizID), zap.Error(setErr))
			}
		}
	}

	return response, nil
}

// ListQuizzes implements QuizService
func (s *quizService) ListQuizzes(ctx context.Context, userID string) (*dto.QuizListResponse, error) {
	quizzes, err := s.repo.ListQuizzesByUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("Failed to list quizzes", err)
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, toQuizResponse(quiz))
	}
	return &dto.QuizListResponse{Quizzes: responses}, nil
}

// DeleteQuiz implements QuizService
func (s *quizService) DeleteQuiz(ctx context.Context, userID string, quizID string) error {
	quiz, err := s.repo.GetQuizByID(ctx, quizID)
	if err != nil {
		return domain.NewInternalError("Failed to get quiz", err)
	}
	if quiz == nil {
		return domain.NewQuizNotFoundError(quizID)
	}
	if quiz.UserID != userID {
		return domain.NewForbiddenError("Quiz belongs to another user")
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteQuiz(txCtx, quizID)
	})
	if err != nil {
		return domain.NewInternalError("Failed to delete quiz", err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.Delete(ctx, cache.QuizDetailKey(quizID)); cacheErr != nil {
			logger.Get().Warn("Failed to invalidate quiz detail cache",
				zap.String("quizID", quizID), zap.Error(cacheErr))
		}
	}
	return nil
}

func toQuizResponse(quiz *domain.Quiz) dto.QuizResponse {
	return dto.QuizResponse{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		VideoURL:     quiz.VideoURL,
		Status:       string(quiz.Status),
		FailureStage: quiz.FailureStage,
		CreatedAt:    quiz.CreatedAt,
		UpdatedAt:    quiz.UpdatedAt,
	}
}

func toQuizDetailResponse(quiz *domain.Quiz, questions []*domain.Question) *dto.QuizDetailResponse {
	questionResponses := make([]dto.QuestionResponse, 0, len(questions))
	for _, question := range questions {
		questionResponses = append(questionResponses, dto.QuestionResponse{
			ID:       question.ID,
			Position: question.Position,
			Title:    question.Title,
			Options:  question.Options,
			Answer:   question.Answer,
		})
	}
	return &dto.QuizDetailResponse{
		QuizResponse: toQuizResponse(quiz),
		Questions:    questionResponses,
	}
}
