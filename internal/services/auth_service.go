package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// AuthService handles registration, credential verification and token issuance.
type AuthService struct {
	userRepo  repositories.UserRepository
	tokens    *TokenService
	publisher EventPublisher
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService. publisher may be nil.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, publisher EventPublisher, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger.Named("auth"),
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummyHash spends one bcrypt comparison so that an unknown email takes
// as long as a wrong password.
func compareDummyHash(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("catalog-login-placeholder"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// Register creates a user with a bcrypt-hashed password. A duplicate email is
// rejected before any write; the unique index backs the check under races.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hashed)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	publishEvent(s.publisher, s.logger, NewAuthEvent(EventUserRegistered, user.Email, user.ID))
	return user, nil
}

// Login verifies the credentials and issues a token. An unknown email and a
// wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		compareDummyHash(password)
		s.loginFailed(email, 0)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.loginFailed(email, user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	publishEvent(s.publisher, s.logger, NewAuthEvent(EventUserLoginSucceeded, user.Email, user.ID))
	return &LoginResult{ID: user.ID, Email: user.Email, Token: token}, nil
}

func (s *AuthService) loginFailed(email string, userID uint) {
	s.logger.Info("login failed", zap.Uint("user_id", userID))
	publishEvent(s.publisher, s.logger, NewAuthEvent(EventUserLoginFailed, email, userID))
}

// CurrentUser resolves the user named by verified token claims.
func (s *AuthService) CurrentUser(ctx context.Context, claims *Claims) (*models.User, error) {
	if claims == nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	return user, nil
}
