package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalauth "github.com/rmaloney/backoffice/internal/auth"
	"github.com/rmaloney/backoffice/internal/models"
	"github.com/rmaloney/backoffice/internal/services"
)

func testTokenManager() *internalauth.TokenManager {
	return internalauth.NewTokenManager("test-secret-key-with-enough-length-123", time.Hour)
}

func TestLogin_Success(t *testing.T) {
	repo := &services.MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return storedUser("user123"), nil
		},
	}

	service := services.NewAuthService(repo, testTokenManager(), services.NewTestLogger())
	result, err := service.Login(context.Background(), "user@example.com", "password123")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "user123", result.User.ID)
	assert.Empty(t, result.User.PasswordHash)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := &services.MockUserRepository{}
	service := services.NewAuthService(repo, testTokenManager(), services.NewTestLogger())

	_, err := service.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &services.MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return storedUser("user123"), nil
		},
	}

	service := services.NewAuthService(repo, testTokenManager(), services.NewTestLogger())
	_, err := service.Login(context.Background(), "user@example.com", "wrong-password")

	// Wrong password and unknown email must be indistinguishable
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLogin_TokenIsValid(t *testing.T) {
	repo := &services.MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return storedUser("user123"), nil
		},
	}

	tm := testTokenManager()
	service := services.NewAuthService(repo, tm, services.NewTestLogger())
	result, err := service.Login(context.Background(), "user@example.com", "password123")
	require.NoError(t, err)

	claims, err := tm.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestRegister_Success(t *testing.T) {
	repo := &services.MockUserRepository{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			out := *user
			out.ID = "new_user"
			return &out, nil
		},
	}

	service := services.NewAuthService(repo, testTokenManager(), services.NewTestLogger())
	result, err := service.Register(context.Background(), "New User", "new@example.com", "password123")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token, "registration should auto-login")
	assert.Equal(t, "new_user", result.User.ID)
	assert.Equal(t, models.RoleUser, result.User.Role)
	assert.Equal(t, models.StatusActive, result.User.Status)
	assert.Empty(t, result.User.PasswordHash)
}

func TestRegister_EmailExists(t *testing.T) {
	repo := &services.MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return storedUser("existing"), nil
		},
	}

	service := services.NewAuthService(repo, testTokenManager(), services.NewTestLogger())
	_, err := service.Register(context.Background(), "New User", "user@example.com", "password123")

	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestRegister_WeakPassword(t *testing.T) {
	repo := &services.MockUserRepository{}
	service := services.NewAuthService(repo, testTokenManager(), services.NewTestLogger())

	_, err := service.Register(context.Background(), "New User", "new@example.com", "short")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid password")
}

func TestCurrentUser_Success(t *testing.T) {
	repo := &services.MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return storedUser(id), nil
		},
	}

	service := services.NewAuthService(repo, testTokenManager(), services.NewTestLogger())
	user, err := service.CurrentUser(context.Background(), "user123")

	require.NoError(t, err)
	assert.Equal(t, "user123", user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestCurrentUser_Deleted(t *testing.T) {
	repo := &services.MockUserRepository{}
	service := services.NewAuthService(repo, testTokenManager(), services.NewTestLogger())

	_, err := service.CurrentUser(context.Background(), "gone_user")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}
