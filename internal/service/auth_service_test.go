package service

import (
	"context"
	"testing"
	"time"

	"vidquiz/internal/config"
	"vidquiz/internal/repository/models"
	"vidquiz/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-that-is-32-bytes!!"

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       testJWTSecret,
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestAuthService(t *testing.T, userRepo *MockUserRepository) AuthService {
	t.Helper()
	svc, err := NewAuthService(userRepo, testAuthConfig())
	require.NoError(t, err)
	return svc
}

func TestNewAuthService_RejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWT.SecretKey = "too-short"

	_, err := NewAuthService(new(MockUserRepository), cfg)
	assert.Error(t, err)
}

func TestCreateAndValidateJWT(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepository))
	user := &models.User{ID: util.NewULID()}

	token, err := svc.CreateJWT(context.Background(), user, time.Minute, "access")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateJWT(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestValidateJWT_Expired(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepository))
	user := &models.User{ID: util.NewULID()}

	token, err := svc.CreateJWT(context.Background(), user, -time.Minute, "access")
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepository))

	otherCfg := testAuthConfig()
	otherCfg.JWT.SecretKey = "another-secret-key-of-32-bytes!!!"
	otherSvc, err := NewAuthService(new(MockUserRepository), otherCfg)
	require.NoError(t, err)

	token, err := otherSvc.CreateJWT(context.Background(), &models.User{ID: util.NewULID()}, time.Minute, "access")
	require.NoError(t, err)

	_, err = svc.ValidateJWT(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestRefreshToken(t *testing.T) {
	userID := util.NewULID()

	t.Run("issues a new token pair", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(t, userRepo)

		user := &models.User{ID: userID}
		userRepo.On("GetUserByID", mock.Anything, userID).Return(user, nil)

		refreshToken, err := svc.CreateJWT(context.Background(), user, time.Hour, "refresh")
		require.NoError(t, err)

		newAccess, newRefresh, err := svc.RefreshToken(context.Background(), refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)

		claims, err := svc.ValidateJWT(context.Background(), newAccess)
		require.NoError(t, err)
		assert.Equal(t, "access", claims.TokenType)
		assert.Equal(t, userID, claims.UserID)
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(t, userRepo)

		accessToken, err := svc.CreateJWT(context.Background(), &models.User{ID: userID}, time.Hour, "access")
		require.NoError(t, err)

		_, _, err = svc.RefreshToken(context.Background(), accessToken)
		assert.Error(t, err)
		userRepo.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := newTestAuthService(t, userRepo)

		userRepo.On("GetUserByID", mock.Anything, userID).Return(nil, nil)

		refreshToken, err := svc.CreateJWT(context.Background(), &models.User{ID: userID}, time.Hour, "refresh")
		require.NoError(t, err)

		_, _, err = svc.RefreshToken(context.Background(), refreshToken)
		assert.Error(t, err)
		userRepo.AssertExpectations(t)
	})
}

func TestEncryptDecryptToken(t *testing.T) {
	svc := newTestAuthService(t, new(MockUserRepository))

	t.Run("round trip", func(t *testing.T) {
		encrypted, err := svc.EncryptToken("ya29.some-google-access-token")
		require.NoError(t, err)
		require.NotEmpty(t, encrypted)
		assert.NotEqual(t, "ya29.some-google-access-token", encrypted)

		decrypted, err := svc.DecryptToken(encrypted)
		require.NoError(t, err)
		assert.Equal(t, "ya29.some-google-access-token", decrypted)
	})

	t.Run("empty token passes through", func(t *testing.T) {
		encrypted, err := svc.EncryptToken("")
		require.NoError(t, err)
		assert.Empty(t, encrypted)

		decrypted, err := svc.DecryptToken("")
		require.NoError(t, err)
		assert.Empty(t, decrypted)
	})

	t.Run("nonce makes ciphertexts distinct", func(t *testing.T) {
		first, err := svc.EncryptToken("same-token")
		require.NoError(t, err)
		second, err := svc.EncryptToken("same-token")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("garbage input fails", func(t *testing.T) {
		_, err := svc.DecryptToken("not-base64!!!")
		assert.ErrorIs(t, err, ErrDecryptionFailed)

		_, err = svc.DecryptToken("dG9vLXNob3J0")
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	})
}
