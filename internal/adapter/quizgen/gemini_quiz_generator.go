package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vidquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// DefaultRetries is the retry budget applied when none is configured.
const DefaultRetries = 5

// GeminiQuizGenerator implements domain.QuestionGenerator by driving a
// langchaingo model through a validate-then-retry loop. The model client is
// injected so tests can substitute a stub without process-wide state.
type GeminiQuizGenerator struct {
	llm         llms.Model
	retries     int
	temperature float64
	logger      *zap.Logger
}

// NewGeminiQuizGenerator creates a new instance of GeminiQuizGenerator.
func NewGeminiQuizGenerator(llm llms.Model, retries int, temperature float64, logger *zap.Logger) (*GeminiQuizGenerator, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm client cannot be nil")
	}
	if retries <= 0 {
		retries = DefaultRetries
	}
	return &GeminiQuizGenerator{
		llm:         llm,
		retries:     retries,
		temperature: temperature,
		logger:      logger,
	}, nil
}

// Generate builds the prompt once, then attempts up to the retry budget to
// obtain a payload satisfying the structural contract. Every failure inside
// one attempt, whether a transport error, missing JSON array, parse failure
// or validation failure, is swallowed and the next attempt begins; causes
// are not distinguished across attempts, only logged. Once the budget is
// exhausted the generator fails with a generation error carrying the attempt
// count and the last seen failure reason.
func (g *GeminiQuizGenerator) Generate(ctx context.Context, transcript string) (domain.QuizPayload, error) {
	prompt := BuildQuizPrompt(transcript)

	var lastErr error
	for attempt := 1; attempt <= g.retries; attempt++ {
		raw, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, llms.WithTemperature(g.temperature))
		if err != nil {
			lastErr = err
			g.logger.Warn("Model call failed",
				zap.Int("attempt", attempt),
				zap.Int("retries", g.retries),
				zap.Error(err),
			)
			continue
		}

		payload, err := extractPayload(raw)
		if err != nil {
			lastErr = err
			g.logger.Warn("Model output rejected",
				zap.Int("attempt", attempt),
				zap.Int("retries", g.retries),
				zap.Error(err),
			)
			continue
		}

		g.logger.Info("Quiz payload generated",
			zap.Int("attempt", attempt),
			zap.Int("questions", len(payload)),
		)
		return payload, nil
	}

	return nil, domain.NewGenerationError(g.retries, lastErr)
}

// extractPayload pulls the first JSON-array-shaped substring out of raw
// model output using a greedy bracket match (first '[' to last ']'),
// tolerating leading or trailing prose the model was told not to emit but
// might anyway, then strictly decodes and validates it.
func extractPayload(raw string) (domain.QuizPayload, error) {
	text := strings.TrimSpace(raw)

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array found in model output")
	}

	var payload domain.QuizPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse model output as quiz payload: %w", err)
	}

	if !payload.Valid() {
		return nil, fmt.Errorf("quiz payload failed structural validation")
	}
	return payload, nil
}

var _ domain.QuestionGenerator = (*GeminiQuizGenerator)(nil)
