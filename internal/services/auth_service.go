package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bloglist/internal/apperror"
	"bloglist/internal/metrics"
	"bloglist/internal/models"
	"bloglist/internal/repositories"
)

// Token rejection reasons. Each failure mode is reported separately.
var (
	ErrTokenMissing   = apperror.Unauthorized("token missing")
	ErrTokenMalformed = apperror.Unauthorized("token malformed")
	ErrTokenSignature = apperror.Unauthorized("token signature invalid")
	ErrTokenExpired   = apperror.Unauthorized("token expired")
	ErrTokenInvalid   = apperror.Unauthorized("token invalid")
	ErrTokenSubject   = apperror.Unauthorized("token subject unknown")

	ErrInvalidCredentials = apperror.Unauthorized("invalid username or password")

	// bcrypt limits passwords by bytes, not characters.
	ErrPasswordTooLong = apperror.Validation("`password` must be at most 72 bytes long")
)

// Claims are the JWT claims issued at login. Subject holds the user ID.
type Claims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, m *metrics.Metrics, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		metrics:   m,
		log:       log,
	}
}

// RegisterUser stores a new user with a bcrypt hash of password. The password
// must already have been validated.
func (s *AuthService) RegisterUser(ctx context.Context, username, name, password string) (*models.User, error) {
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("expected `username` to be unique")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Internal("failed to look up username", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong.Wrap(err)
		}
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &models.User{
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("expected `username` to be unique").Wrap(err)
		}
		return nil, apperror.Internal("failed to register user", err)
	}

	s.metrics.UsersRegistered.Inc()
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// ListUsers returns all users with the blogs they own.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list users", err)
	}
	return users, nil
}

// LoginUser checks the credentials and returns a signed token for the user.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.metrics.AuthFailures.WithLabelValues(ErrInvalidCredentials.Message).Inc()
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, apperror.Internal("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.AuthFailures.WithLabelValues(ErrInvalidCredentials.Message).Inc()
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs a token whose subject is the user's ID.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", apperror.Internal("failed to generate token", err)
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			switch {
			case ve.Errors&jwt.ValidationErrorMalformed != 0:
				return nil, ErrTokenMalformed.Wrap(err)
			case ve.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				return nil, ErrTokenSignature.Wrap(err)
			case ve.Errors&jwt.ValidationErrorExpired != 0:
				return nil, ErrTokenExpired.Wrap(err)
			}
		}
		return nil, ErrTokenInvalid.Wrap(err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	user, err := s.authenticate(ctx, tokenString)
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) && appErr.Kind == apperror.KindUnauthorized {
			s.metrics.AuthFailures.WithLabelValues(appErr.Message).Inc()
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTokenSubject.Wrap(err)
		}
		return nil, apperror.Internal("failed to load token subject", err)
	}
	return user, nil
}
