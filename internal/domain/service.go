package domain

import "context"

// SourceMetadata is the human-readable metadata of an acquired video.
type SourceMetadata struct {
	Title       string
	Description string
	Channel     string
	Duration    float64
}

// AudioAsset is a locally stored audio file extracted from a video plus the
// source metadata captured during acquisition. Path points at shared
// ephemeral storage; the file name is unique per run.
type AudioAsset struct {
	Path     string
	Metadata SourceMetadata
}

// AudioDownloader acquires the audio track of a video given its canonical
// URL. Implementations must process exactly the referenced video even for
// playlist-shaped URLs and must fail with an acquisition error when the
// expected output file is absent after post-processing.
type AudioDownloader interface {
	Download(ctx context.Context, canonicalURL string) (*AudioAsset, error)
}

// Transcriber converts a local audio file into plain transcript text.
// A failure here is terminal for the pipeline run; no retry at this layer.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// QuestionGenerator drives the generative model until it yields a payload
// that satisfies the structural contract, or its retry budget is exhausted.
type QuestionGenerator interface {
	Generate(ctx context.Context, transcript string) (QuizPayload, error)
}

// QuizRepository defines the interface for quiz persistence.
// Lookup methods return (nil, nil) when no row matches.
type QuizRepository interface {
	// CreateQuiz persists a new quiz row, assigning its ID and timestamps.
	CreateQuiz(ctx context.Context, quiz *Quiz) error

	// UpdateQuizMetadata replaces title, description, status and failure
	// stage of an existing quiz in a single update.
	UpdateQuizMetadata(ctx context.Context, quiz *Quiz) error

	// MarkQuizFailed records the failing pipeline stage on the quiz row.
	MarkQuizFailed(ctx context.Context, quizID string, stage Stage) error

	// CreateQuestions persists a batch of questions in the given order.
	CreateQuestions(ctx context.Context, questions []*Question) error

	// GetQuizByID retrieves a quiz by its ID, without questions.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// GetQuestionsByQuizID retrieves a quiz's questions in generation order.
	GetQuestionsByQuizID(ctx context.Context, quizID string) ([]*Question, error)

	// ListQuizzesByUser retrieves all quizzes owned by a user, newest first.
	ListQuizzesByUser(ctx context.Context, userID string) ([]*Quiz, error)

	// DeleteQuiz removes a quiz and all of its questions.
	DeleteQuiz(ctx context.Context, id string) error
}

// TransactionManager runs a function inside one atomic unit of work.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
