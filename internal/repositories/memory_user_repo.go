package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rmaloney/backoffice/internal/models"
)

// MemoryUserRepository is an in-memory user store. It is the default backend
// and mimics a remote one: operations honor context cancellation and can apply
// an artificial latency.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	latency time.Duration
}

// NewMemoryUserRepository creates an empty in-memory store
func NewMemoryUserRepository(latency time.Duration) *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]*models.User),
		latency: latency,
	}
}

// sleep simulates backend latency, returning early on context cancellation
func (r *MemoryUserRepository) sleep(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyUser(user), nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return copyUser(user), nil
		}
	}
	return nil, models.ErrNotFound
}

// List returns one page of users plus the total count after the search filter.
// The total is independent of pagination.
func (r *MemoryUserRepository) List(ctx context.Context, params models.ListParams) ([]*models.User, int, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(params.Search)
	filtered := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Name), search) &&
			!strings.Contains(strings.ToLower(user.Email), search) {
			continue
		}
		filtered = append(filtered, user)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		}
		return filtered[i].ID < filtered[j].ID
	})

	total := len(filtered)

	start := (params.Page - 1) * params.Limit
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}

	page := make([]*models.User, 0, end-start)
	for _, user := range filtered[start:end] {
		page = append(page, copyUser(user))
	}

	return page, total, nil
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, models.ErrConflict
		}
	}

	created := copyUser(user)
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	if created.Role == "" {
		created.Role = models.RoleUser
	}
	if created.Status == "" {
		created.Status = models.StatusActive
	}

	now := time.Now()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = created.CreatedAt

	r.users[created.ID] = created
	return copyUser(created), nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if err := r.sleep(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}

	// Email uniqueness is re-checked on email-changing updates
	if !strings.EqualFold(existing.Email, user.Email) {
		for otherID, other := range r.users {
			if otherID != id && strings.EqualFold(other.Email, user.Email) {
				return nil, models.ErrConflict
			}
		}
	}

	updated := copyUser(user)
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()

	r.users[id] = updated
	return copyUser(updated), nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.sleep(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.users, id)
	return nil
}
