package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/rmaloney/backoffice/internal/models"
	"github.com/rmaloney/backoffice/pkg/auth"
)

type seedUser struct {
	name     string
	email    string
	password string
	role     string
	status   string
	created  time.Time
}

var seedUsers = []seedUser{
	{"John Doe", "john@example.com", "password123", models.RoleAdmin, models.StatusActive, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	{"Jane Smith", "jane@example.com", "password123", models.RoleUser, models.StatusActive, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	{"Bob Johnson", "bob@example.com", "password123", models.RoleUser, models.StatusInactive, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
}

// Seed populates an empty store with fixture users so the dashboard has data
// to show out of the box. Existing emails are skipped, which makes seeding
// idempotent across restarts of a persistent store.
func Seed(ctx context.Context, repo UserRepository) error {
	for _, s := range seedUsers {
		if _, err := repo.GetByEmail(ctx, s.email); err == nil {
			continue
		}

		hash, err := auth.HashPassword(s.password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		user := &models.User{
			Name:         s.name,
			Email:        s.email,
			PasswordHash: hash,
			Role:         s.role,
			Status:       s.status,
			CreatedAt:    s.created,
			UpdatedAt:    s.created,
		}

		if _, err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", s.email, err)
		}
	}
	return nil
}
