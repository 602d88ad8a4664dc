package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"bloglist/internal/apperror"
	"bloglist/internal/metrics"
	"bloglist/internal/models"
	"bloglist/internal/repositories"
	"bloglist/internal/services"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newAuthService(t *testing.T, repo repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(repo, testJWTSecret, time.Hour, metrics.New(), zaptest.NewLogger(t))
}

func notFound(what string) error {
	return fmt.Errorf("user %s: %w", what, repositories.ErrNotFound)
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo)

	// Test successful registration
	mockRepo.On("GetByUsername", ctx, "testuser").Return(nil, notFound("testuser")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.RegisterUser(ctx, "testuser", "Test User", "password123")
	require.NoError(t, err)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, "Test User", user.Name)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Test username already taken
	mockRepo.On("GetByUsername", ctx, "testuser").Return(&models.User{ID: "1"}, nil).Once()
	_, err = authService.RegisterUser(ctx, "testuser", "Test User", "password123")
	assert.ErrorIs(t, err, apperror.Conflict(""))
	assert.Contains(t, err.Error(), "expected `username` to be unique")
	mockRepo.AssertExpectations(t)

	// Test unique index violation racing the lookup
	mockRepo.On("GetByUsername", ctx, "racer").Return(nil, notFound("racer")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("username racer already taken: %w", repositories.ErrDuplicate)).Once()
	_, err = authService.RegisterUser(ctx, "racer", "", "password123")
	assert.ErrorIs(t, err, apperror.Conflict(""))
	mockRepo.AssertExpectations(t)

	// Test storage failure
	mockRepo.On("GetByUsername", ctx, "broken").Return(nil, fmt.Errorf("connection refused")).Once()
	_, err = authService.RegisterUser(ctx, "broken", "", "password123")
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	mockRepo.AssertExpectations(t)

	// Test password short in characters but over bcrypt's byte limit
	mockRepo.On("GetByUsername", ctx, "accents").Return(nil, notFound("accents")).Once()
	_, err = authService.RegisterUser(ctx, "accents", "", strings.Repeat("é", 60))
	assert.ErrorIs(t, err, services.ErrPasswordTooLong)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           "user-123",
		Username:     "testuser",
		Name:         "Test User",
		PasswordHash: string(hashedPassword),
	}

	// Test successful login
	mockRepo.On("GetByUsername", ctx, user.Username).Return(user, nil).Once()
	token, loggedIn, err := authService.LoginUser(ctx, "testuser", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user, loggedIn)

	parsedToken, err := jwt.ParseWithClaims(token, &services.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(*services.Claims)
	require.True(t, ok)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, user.Username, claims.Username)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByUsername", ctx, user.Username).Return(user, nil).Once()
	_, _, err = authService.LoginUser(ctx, "testuser", "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (user not found) gives the same answer
	mockRepo.On("GetByUsername", ctx, "nonexistentuser").Return(nil, notFound("nonexistentuser")).Once()
	_, _, err = authService.LoginUser(ctx, "nonexistentuser", "password123")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func signed(t *testing.T, claims jwt.Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(t, new(MockUserRepository))
	now := time.Now()

	valid := signed(t, services.Claims{
		Username:       "testuser",
		StandardClaims: jwt.StandardClaims{Subject: "user-123", ExpiresAt: now.Add(time.Hour).Unix()},
	}, testJWTSecret)
	claims, err := authService.ValidateToken(valid)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "testuser", claims.Username)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"missing", "", services.ErrTokenMissing},
		{"malformed", "invalid.token.string", services.ErrTokenMalformed},
		{"wrong secret", signed(t, services.Claims{
			StandardClaims: jwt.StandardClaims{Subject: "user-123", ExpiresAt: now.Add(time.Hour).Unix()},
		}, "another_secret"), services.ErrTokenSignature},
		{"expired", signed(t, services.Claims{
			StandardClaims: jwt.StandardClaims{Subject: "user-123", ExpiresAt: now.Add(-time.Hour).Unix()},
		}, testJWTSecret), services.ErrTokenExpired},
		{"no subject", signed(t, services.Claims{
			Username:       "testuser",
			StandardClaims: jwt.StandardClaims{ExpiresAt: now.Add(time.Hour).Unix()},
		}, testJWTSecret), services.ErrTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := newAuthService(t, mockRepo)

	user := &models.User{ID: "user-123", Username: "testuser"}
	token, err := authService.IssueToken(user)
	require.NoError(t, err)

	mockRepo.On("GetByID", ctx, "user-123").Return(user, nil).Once()
	resolved, err := authService.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user, resolved)

	// The user behind a valid token has been removed
	mockRepo.On("GetByID", ctx, "user-123").Return(nil, notFound("user-123")).Once()
	_, err = authService.Authenticate(ctx, token)
	assert.ErrorIs(t, err, services.ErrTokenSubject)
	mockRepo.AssertExpectations(t)
}
