package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidquiz/internal/config"
	"vidquiz/internal/domain"
	"vidquiz/internal/dto"
	"vidquiz/internal/logger"
	"vidquiz/internal/middleware"
	"vidquiz/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "error"}); err != nil {
		panic(err)
	}
	m.Run()
}

// stubQuizService lets each test script the service layer with plain funcs.
type stubQuizService struct {
	createFn func(ctx context.Context, userID string, req *dto.CreateQuizRequest) (*dto.QuizDetailResponse, error)
	getFn    func(ctx context.Context, userID, quizID string) (*dto.QuizDetailResponse, error)
	listFn   func(ctx context.Context, userID string) (*dto.QuizListResponse, error)
	deleteFn func(ctx context.Context, userID, quizID string) error
}

func (s *stubQuizService) CreateQuiz(ctx context.Context, userID string, req *dto.CreateQuizRequest) (*dto.QuizDetailResponse, error) {
	return s.createFn(ctx, userID, req)
}

func (s *stubQuizService) GetQuiz(ctx context.Context, userID, quizID string) (*dto.QuizDetailResponse, error) {
	return s.getFn(ctx, userID, quizID)
}

func (s *stubQuizService) ListQuizzes(ctx context.Context, userID string) (*dto.QuizListResponse, error) {
	return s.listFn(ctx, userID)
}

func (s *stubQuizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	return s.deleteFn(ctx, userID, quizID)
}

// newTestApp wires the handler behind the production error handler, with a
// stand-in for the auth middleware that injects the given user ID.
func newTestApp(svc *stubQuizService, userID string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals(middleware.UserIDKey, userID)
		}
		return c.Next()
	})

	h := NewQuizHandler(svc)
	vm := middleware.NewValidationMiddleware()
	app.Post("/api/quizzes", h.CreateQuiz)
	app.Get("/api/quizzes", h.ListQuizzes)
	app.Get("/api/quizzes/:id", vm.ValidateQuizID(), h.GetQuiz)
	app.Delete("/api/quizzes/:id", vm.ValidateQuizID(), h.DeleteQuiz)
	return app
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestCreateQuiz(t *testing.T) {
	userID := util.NewULID()
	quizID := util.NewULID()

	t.Run("created", func(t *testing.T) {
		svc := &stubQuizService{
			createFn: func(ctx context.Context, gotUserID string, req *dto.CreateQuizRequest) (*dto.QuizDetailResponse, error) {
				assert.Equal(t, userID, gotUserID)
				assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", req.VideoURL)
				return &dto.QuizDetailResponse{
					QuizResponse: dto.QuizResponse{ID: quizID, Status: "ready"},
				}, nil
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes",
			dto.CreateQuizRequest{VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body dto.QuizDetailResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, quizID, body.ID)
	})

	t.Run("missing video_url", func(t *testing.T) {
		svc := &stubQuizService{
			createFn: func(ctx context.Context, userID string, req *dto.CreateQuizRequest) (*dto.QuizDetailResponse, error) {
				t.Fatal("service must not be called for an invalid request")
				return nil, nil
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes", dto.CreateQuizRequest{}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		decodeBody(t, resp, &body)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "video_url", body.Errors[0].Field)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := &stubQuizService{}
		app := newTestApp(svc, userID)

		req := httptest.NewRequest(http.MethodPost, "/api/quizzes", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unsupported URL surfaces as 400", func(t *testing.T) {
		svc := &stubQuizService{
			createFn: func(ctx context.Context, userID string, req *dto.CreateQuizRequest) (*dto.QuizDetailResponse, error) {
				return nil, domain.NewInvalidURLError(req.VideoURL)
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes",
			dto.CreateQuizRequest{VideoURL: "https://vimeo.com/12345"}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, string(domain.CodeInvalidURL), body.Code)
	})

	t.Run("download failure surfaces as 502", func(t *testing.T) {
		svc := &stubQuizService{
			createFn: func(ctx context.Context, userID string, req *dto.CreateQuizRequest) (*dto.QuizDetailResponse, error) {
				return nil, domain.NewAcquisitionError(assertableCause())
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes",
			dto.CreateQuizRequest{VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("exhausted generation budget surfaces as 503", func(t *testing.T) {
		svc := &stubQuizService{
			createFn: func(ctx context.Context, userID string, req *dto.CreateQuizRequest) (*dto.QuizDetailResponse, error) {
				return nil, domain.NewGenerationError(5, assertableCause())
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes",
			dto.CreateQuizRequest{VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := &stubQuizService{}
		app := newTestApp(svc, "")

		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quizzes",
			dto.CreateQuizRequest{VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ"}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetQuiz(t *testing.T) {
	userID := util.NewULID()
	quizID := util.NewULID()

	t.Run("found", func(t *testing.T) {
		svc := &stubQuizService{
			getFn: func(ctx context.Context, gotUserID, gotQuizID string) (*dto.QuizDetailResponse, error) {
				assert.Equal(t, userID, gotUserID)
				assert.Equal(t, quizID, gotQuizID)
				return &dto.QuizDetailResponse{
					QuizResponse: dto.QuizResponse{ID: quizID, Status: "ready"},
					Questions:    []dto.QuestionResponse{{Position: 0, Title: "Q?"}},
				}, nil
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/"+quizID, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body dto.QuizDetailResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, quizID, body.ID)
		require.Len(t, body.Questions, 1)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubQuizService{
			getFn: func(ctx context.Context, userID, quizID string) (*dto.QuizDetailResponse, error) {
				return nil, domain.NewQuizNotFoundError(quizID)
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/"+quizID, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("someone else's quiz", func(t *testing.T) {
		svc := &stubQuizService{
			getFn: func(ctx context.Context, userID, quizID string) (*dto.QuizDetailResponse, error) {
				return nil, domain.NewForbiddenError("Quiz belongs to another user")
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/"+quizID, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("malformed quiz ID", func(t *testing.T) {
		svc := &stubQuizService{
			getFn: func(ctx context.Context, userID, quizID string) (*dto.QuizDetailResponse, error) {
				t.Fatal("service must not be called for a malformed ID")
				return nil, nil
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes/not-a-ulid", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListQuizzes(t *testing.T) {
	userID := util.NewULID()

	svc := &stubQuizService{
		listFn: func(ctx context.Context, gotUserID string) (*dto.QuizListResponse, error) {
			assert.Equal(t, userID, gotUserID)
			return &dto.QuizListResponse{Quizzes: []dto.QuizResponse{
				{ID: util.NewULID(), Status: "ready"},
				{ID: util.NewULID(), Status: "failed"},
			}}, nil
		},
	}
	app := newTestApp(svc, userID)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.QuizListResponse
	decodeBody(t, resp, &body)
	assert.Len(t, body.Quizzes, 2)
}

func TestDeleteQuiz(t *testing.T) {
	userID := util.NewULID()
	quizID := util.NewULID()

	t.Run("deleted", func(t *testing.T) {
		called := false
		svc := &stubQuizService{
			deleteFn: func(ctx context.Context, gotUserID, gotQuizID string) error {
				called = true
				assert.Equal(t, userID, gotUserID)
				assert.Equal(t, quizID, gotQuizID)
				return nil
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/quizzes/"+quizID, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, called)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubQuizService{
			deleteFn: func(ctx context.Context, userID, quizID string) error {
				return domain.NewQuizNotFoundError(quizID)
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/quizzes/"+quizID, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed quiz ID rejected before the handler", func(t *testing.T) {
		svc := &stubQuizService{
			deleteFn: func(ctx context.Context, userID, quizID string) error {
				t.Fatal("service must not be called for a malformed ID")
				return nil
			},
		}
		app := newTestApp(svc, userID)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/quizzes/not-a-ulid", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body middleware.ValidationErrorResponse
		decodeBody(t, resp, &body)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "quiz_id", body.Errors[0].Field)
	})
}

func assertableCause() error {
	return &domain.DomainError{Code: domain.CodeInternal, Message: "boom"}
}
