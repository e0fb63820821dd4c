package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"vidquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// stubModel returns canned responses in order. A nil error with response i
// plays response i; a non-nil error at index i fails that attempt.
type stubModel struct {
	responses []string
	errs      []error
	calls     int
}

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	response := ""
	if i < len(s.responses) {
		response = s.responses[i]
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: response}},
	}, nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := s.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(schema.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

var _ llms.Model = (*stubModel)(nil)

func validPayloadJSON(t *testing.T) string {
	t.Helper()
	payload := make(domain.QuizPayload, 0, domain.PayloadQuestionCount)
	for i := 0; i < domain.PayloadQuestionCount; i++ {
		options := []string{
			fmt.Sprintf("alpha %d", i),
			fmt.Sprintf("beta %d", i),
			fmt.Sprintf("gamma %d", i),
			fmt.Sprintf("delta %d", i),
		}
		payload = append(payload, domain.QuestionPayload{
			Title:   fmt.Sprintf("What is stated about subject %d in the talk?", i),
			Options: options,
			Answer:  options[1],
		})
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_FirstAttemptSucceeds(t *testing.T) {
	model := &stubModel{responses: []string{validPayloadJSON(t)}}
	generator, err := NewGeminiQuizGenerator(model, 5, 0.2, zap.NewNop())
	require.NoError(t, err)

	payload, err := generator.Generate(context.Background(), "the transcript")
	require.NoError(t, err)
	assert.Len(t, payload, domain.PayloadQuestionCount)
	assert.Equal(t, 1, model.calls)
}

func TestGenerate_RecoversAfterBadAttempts(t *testing.T) {
	valid := validPayloadJSON(t)
	model := &stubModel{
		responses: []string{
			"I could not comply, sorry.",           // no JSON array at all
			`[{"question_title": "only one"}]`,     // parses but fails validation
			"```json\n" + valid + "\n```",          // markdown fences around valid payload
		},
		errs: []error{nil, nil, nil},
	}
	generator, err := NewGeminiQuizGenerator(model, 5, 0.2, zap.NewNop())
	require.NoError(t, err)

	payload, err := generator.Generate(context.Background(), "the transcript")
	require.NoError(t, err)
	assert.Len(t, payload, domain.PayloadQuestionCount)
	assert.Equal(t, 3, model.calls)
}

func TestGenerate_TransportErrorsAreRetried(t *testing.T) {
	model := &stubModel{
		responses: []string{"", "", validPayloadJSON(t)},
		errs:      []error{errors.New("rpc deadline"), errors.New("rpc deadline"), nil},
	}
	generator, err := NewGeminiQuizGenerator(model, 5, 0.2, zap.NewNop())
	require.NoError(t, err)

	payload, err := generator.Generate(context.Background(), "the transcript")
	require.NoError(t, err)
	assert.Len(t, payload, domain.PayloadQuestionCount)
	assert.Equal(t, 3, model.calls)
}

func TestGenerate_ExhaustsRetryBudget(t *testing.T) {
	model := &stubModel{
		responses: []string{"junk", "junk", "junk"},
	}
	generator, err := NewGeminiQuizGenerator(model, 3, 0.2, zap.NewNop())
	require.NoError(t, err)

	_, err = generator.Generate(context.Background(), "the transcript")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeGeneration, domainErr.Code)
	assert.Equal(t, 3, domainErr.Context["attempts"])
	assert.Equal(t, 3, model.calls)
}

func TestNewGeminiQuizGenerator(t *testing.T) {
	_, err := NewGeminiQuizGenerator(nil, 5, 0.2, zap.NewNop())
	assert.Error(t, err)

	generator, err := NewGeminiQuizGenerator(&stubModel{}, 0, 0.2, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultRetries, generator.retries)
}

func TestExtractPayload(t *testing.T) {
	valid := validPayloadJSON(t)

	t.Run("bare array", func(t *testing.T) {
		payload, err := extractPayload(valid)
		require.NoError(t, err)
		assert.Len(t, payload, domain.PayloadQuestionCount)
	})

	t.Run("surrounded by prose", func(t *testing.T) {
		payload, err := extractPayload("Here is your quiz:\n" + valid + "\nEnjoy!")
		require.NoError(t, err)
		assert.Len(t, payload, domain.PayloadQuestionCount)
	})

	t.Run("markdown fences", func(t *testing.T) {
		payload, err := extractPayload("```json\n" + valid + "\n```")
		require.NoError(t, err)
		assert.Len(t, payload, domain.PayloadQuestionCount)
	})

	t.Run("no array", func(t *testing.T) {
		_, err := extractPayload("there is nothing here")
		assert.Error(t, err)
	})

	t.Run("unbalanced brackets", func(t *testing.T) {
		_, err := extractPayload("]...[")
		assert.Error(t, err)
	})

	t.Run("malformed json inside brackets", func(t *testing.T) {
		_, err := extractPayload(`[{"question_title": ]`)
		assert.Error(t, err)
	})

	t.Run("structurally invalid payload", func(t *testing.T) {
		_, err := extractPayload(`[{"question_title": "q", "question_options": ["a","b","c","d"], "answer": "e"}]`)
		assert.Error(t, err)
	})
}

func TestBuildQuizPrompt(t *testing.T) {
	prompt := BuildQuizPrompt("the transcript body")

	assert.Contains(t, prompt, "the transcript body")
	assert.Contains(t, prompt, "EXACTLY 10")
	assert.Contains(t, prompt, `"question_title"`)
	assert.Contains(t, prompt, `"question_options"`)
	assert.Contains(t, prompt, `"answer"`)

	// deterministic for the same transcript
	assert.Equal(t, prompt, BuildQuizPrompt("the transcript body"))
}
