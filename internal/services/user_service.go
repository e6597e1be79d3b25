package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/rmaloney/backoffice/internal/models"
	"github.com/rmaloney/backoffice/pkg/auth"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, params models.ListParams) ([]*models.User, int, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	userCacheTTL = time.Minute
)

// UserUpdate carries the fields an update may change. Nil pointers mean
// "leave unchanged".
type UserUpdate struct {
	Name   *string
	Email  *string
	Role   *string
	Status *string
}

// UserService handles user business logic. Sanitized user-by-id reads are
// cached briefly; the cache is dropped on any write to that user.
type UserService struct {
	repo   UserRepository
	cache  *gocache.Cache
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		cache:  gocache.New(userCacheTTL, 5*time.Minute),
		logger: logger,
	}
}

// sanitize strips the password hash so it never leaves the service layer
func sanitize(user *models.User) *models.User {
	c := *user
	c.PasswordHash = ""
	return &c
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if cached, ok := s.cache.Get(id); ok {
		return cached.(*models.User), nil
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	clean := sanitize(user)
	s.cache.SetDefault(id, clean)
	return clean, nil
}

// ListUsers retrieves one page of users matching the search filter
func (s *UserService) ListUsers(ctx context.Context, params models.ListParams) (*models.UserPage, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit <= 0 {
		params.Limit = DefaultPageLimit
	}
	if params.Limit > MaxPageLimit {
		params.Limit = MaxPageLimit
	}

	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		s.logger.Error("failed to list users",
			slog.Int("page", params.Page),
			slog.Int("limit", params.Limit),
			slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	page := &models.UserPage{
		Users: make([]*models.User, len(users)),
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}
	for i, user := range users {
		page.Users[i] = sanitize(user)
	}

	return page, nil
}

// CreateUser creates a new user with the given password
func (s *UserService) CreateUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		s.logger.Info("user already exists")
		return nil, models.ErrConflict
	}

	if err := auth.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.PasswordHash = hashedPassword

	createdUser, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user created", slog.String("user_id", createdUser.ID))
	return sanitize(createdUser), nil
}

// UpdateUser applies a partial update to an existing user
func (s *UserService) UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if update.Name != nil {
		existing.Name = *update.Name
	}
	if update.Email != nil {
		existing.Email = *update.Email
	}
	if update.Role != nil {
		existing.Role = *update.Role
	}
	if update.Status != nil {
		existing.Status = *update.Status
	}

	updatedUser, err := s.repo.Update(ctx, id, existing)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("email already in use", slog.String("user_id", id))
			return nil, models.ErrConflict
		}
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.cache.Delete(id)
	s.logger.Info("user updated", slog.String("user_id", id))
	return sanitize(updatedUser), nil
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.cache.Delete(id)
	s.logger.Info("user deleted", slog.String("user_id", id))
	return nil
}
