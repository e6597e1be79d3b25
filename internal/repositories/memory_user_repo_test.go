package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmaloney/backoffice/internal/models"
	"github.com/rmaloney/backoffice/internal/repositories"
)

func newRepo() *repositories.MemoryUserRepository {
	return repositories.NewMemoryUserRepository(0)
}

func createUser(t *testing.T, repo *repositories.MemoryUserRepository, name, email string) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func TestMemoryRepo_CreateAndGetByID(t *testing.T) {
	repo := newRepo()
	created := createUser(t, repo, "John Doe", "john@example.com")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.RoleUser, created.Role, "role defaults to user")
	assert.Equal(t, models.StatusActive, created.Status, "status defaults to active")
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "john@example.com", got.Email)
}

func TestMemoryRepo_GetByID_NotFound(t *testing.T) {
	repo := newRepo()
	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryRepo_GetByEmail_CaseInsensitive(t *testing.T) {
	repo := newRepo()
	created := createUser(t, repo, "John Doe", "john@example.com")

	got, err := repo.GetByEmail(context.Background(), "John@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestMemoryRepo_Create_DuplicateEmail(t *testing.T) {
	repo := newRepo()
	createUser(t, repo, "John Doe", "john@example.com")

	_, err := repo.Create(context.Background(), &models.User{
		Name:  "Impostor",
		Email: "John@Example.com",
	})
	assert.ErrorIs(t, err, models.ErrConflict)

	// The failed create must not have touched the collection
	_, total, err := repo.List(context.Background(), models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestMemoryRepo_List_SearchFiltersNameAndEmail(t *testing.T) {
	repo := newRepo()
	createUser(t, repo, "John Doe", "john@example.com")
	createUser(t, repo, "Jane Smith", "jane@example.com")
	createUser(t, repo, "Bob Johnson", "bob@other.org")

	// Matches name substring, case-insensitive
	users, total, err := repo.List(context.Background(), models.ListParams{Page: 1, Limit: 10, Search: "john"})
	require.NoError(t, err)
	assert.Equal(t, 2, total, "matches John Doe by name and Bob Johnson by name")
	assert.Len(t, users, 2)

	// Matches email substring
	users, total, err = repo.List(context.Background(), models.ListParams{Page: 1, Limit: 10, Search: "other.org"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Bob Johnson", users[0].Name)

	// No match
	_, total, err = repo.List(context.Background(), models.ListParams{Page: 1, Limit: 10, Search: "zzz"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestMemoryRepo_List_TotalIndependentOfPagination(t *testing.T) {
	repo := newRepo()
	for i := 0; i < 25; i++ {
		createUser(t, repo, fmt.Sprintf("User %02d", i), fmt.Sprintf("user%02d@example.com", i))
	}

	users, total, err := repo.List(context.Background(), models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, users, 10)

	users, total, err = repo.List(context.Background(), models.ListParams{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, users, 5, "last page holds the remainder")

	users, total, err = repo.List(context.Background(), models.ListParams{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Empty(t, users, "pages past the end are empty, not an error")
}

func TestMemoryRepo_List_StableOrdering(t *testing.T) {
	repo := newRepo()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := repo.Create(context.Background(), &models.User{
			Name:      fmt.Sprintf("User %d", i),
			Email:     fmt.Sprintf("user%d@example.com", i),
			CreatedAt: base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	users, _, err := repo.List(context.Background(), models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "User 0", users[0].Name)
	assert.Equal(t, "User 1", users[1].Name)
	assert.Equal(t, "User 2", users[2].Name)
}

func TestMemoryRepo_Update_ChangesFieldsAndTimestamps(t *testing.T) {
	repo := newRepo()
	created := createUser(t, repo, "John Doe", "john@example.com")

	modified := *created
	modified.Name = "Johnny Doe"
	updated, err := repo.Update(context.Background(), created.ID, &modified)

	require.NoError(t, err)
	assert.Equal(t, "Johnny Doe", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "creation time is immutable")
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestMemoryRepo_Update_EmailConflict(t *testing.T) {
	repo := newRepo()
	createUser(t, repo, "John Doe", "john@example.com")
	jane := createUser(t, repo, "Jane Smith", "jane@example.com")

	modified := *jane
	modified.Email = "John@Example.com"
	_, err := repo.Update(context.Background(), jane.ID, &modified)

	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestMemoryRepo_Update_SameEmailIsNotAConflict(t *testing.T) {
	repo := newRepo()
	created := createUser(t, repo, "John Doe", "john@example.com")

	modified := *created
	modified.Name = "Johnny Doe"
	_, err := repo.Update(context.Background(), created.ID, &modified)

	assert.NoError(t, err, "keeping your own email must not trip the uniqueness check")
}

func TestMemoryRepo_Update_NotFound(t *testing.T) {
	repo := newRepo()
	_, err := repo.Update(context.Background(), "missing", &models.User{Email: "x@example.com"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryRepo_Delete(t *testing.T) {
	repo := newRepo()
	created := createUser(t, repo, "John Doe", "john@example.com")

	require.NoError(t, repo.Delete(context.Background(), created.ID))

	_, err := repo.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(context.Background(), created.ID), models.ErrNotFound)
}

func TestMemoryRepo_ReturnsCopies(t *testing.T) {
	repo := newRepo()
	created := createUser(t, repo, "John Doe", "john@example.com")

	created.Name = "Mutated"

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name, "callers must not be able to mutate stored state")
}

func TestMemoryRepo_LatencyHonorsContextCancellation(t *testing.T) {
	repo := repositories.NewMemoryUserRepository(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := repo.GetByID(ctx, "missing")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestSeed_Idempotent(t *testing.T) {
	repo := newRepo()

	require.NoError(t, repositories.Seed(context.Background(), repo))
	_, total, err := repo.List(context.Background(), models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 3, total)

	// Seeding again must not duplicate the fixtures
	require.NoError(t, repositories.Seed(context.Background(), repo))
	_, total, err = repo.List(context.Background(), models.ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestSeed_FixturesCanLogIn(t *testing.T) {
	repo := newRepo()
	require.NoError(t, repositories.Seed(context.Background(), repo))

	admin, err := repo.GetByEmail(context.Background(), "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NotEmpty(t, admin.PasswordHash)
}
