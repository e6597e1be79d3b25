package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	internalauth "github.com/rmaloney/backoffice/internal/auth"
	"github.com/rmaloney/backoffice/internal/models"
	pkgauth "github.com/rmaloney/backoffice/pkg/auth"
	pkglogger "github.com/rmaloney/backoffice/pkg/logger"
)

// AuthResult is the outcome of a successful login or registration
type AuthResult struct {
	Token string
	User  *models.User
}

// AuthService handles authentication business logic
type AuthService struct {
	repo   UserRepository
	tokens *internalauth.TokenManager
	logger *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(repo UserRepository, tokens *internalauth.TokenManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password fail identically so the response never reveals which it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed", slog.String("email", pkglogger.SanitizedEmail(email)))
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed", slog.String("email", pkglogger.SanitizedEmail(email)))
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.logger.Error("failed to generate token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("login succeeded", slog.String("user_id", user.ID))
	return &AuthResult{Token: token, User: sanitize(user)}, nil
}

// Register creates a new account and issues a token (auto-login)
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		s.logger.Info("registration rejected, email exists",
			slog.String("email", pkglogger.SanitizedEmail(email)))
		return nil, models.ErrConflict
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}

	createdUser, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tokens.GenerateToken(createdUser)
	if err != nil {
		s.logger.Error("failed to generate token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("user_id", createdUser.ID))
	return &AuthResult{Token: token, User: sanitize(createdUser)}, nil
}

// CurrentUser resolves the authenticated user from verified token claims
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		s.logger.Error("failed to get current user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return sanitize(user), nil
}
