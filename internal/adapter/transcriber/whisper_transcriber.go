package transcriber

import (
	"context"
	"fmt"
	"strings"

	"vidquiz/internal/domain"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// WhisperTranscriber implements the domain.Transcriber interface using the
// OpenAI audio transcription API. The model tier is fixed at construction:
// the pipeline favors latency over transcription accuracy, since downstream
// validation only checks the structural shape of generated questions.
type WhisperTranscriber struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewWhisperTranscriber creates a new instance of WhisperTranscriber.
func NewWhisperTranscriber(apiKey, model string, logger *zap.Logger) (*WhisperTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("transcriber API key cannot be empty")
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperTranscriber{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

// Transcribe converts a local audio file into plain transcript text.
// There is no retry at this layer; a failure is terminal for the run.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	t.logger.Info("Transcribing audio",
		zap.String("path", audioPath),
		zap.String("model", t.model),
	)

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", domain.NewTranscriptionError(err)
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		return "", domain.NewTranscriptionError(fmt.Errorf("empty transcript for %s", audioPath))
	}

	t.logger.Info("Transcription complete",
		zap.String("path", audioPath),
		zap.Int("transcript_chars", len(transcript)),
	)
	return transcript, nil
}

var _ domain.Transcriber = (*WhisperTranscriber)(nil)
