package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rmaloney/backoffice/internal/database"
	"github.com/rmaloney/backoffice/internal/models"
)

// PostgresUserRepository stores users in Postgres
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(db *database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{pool: db.Pool}
}

// rowScanner supports both single-row and multi-row scanning
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Role, &user.Status,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM users WHERE id = $1
	`

	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM users WHERE lower(email) = lower($1)
	`

	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

func (r *PostgresUserRepository) List(ctx context.Context, params models.ListParams) ([]*models.User, int, error) {
	pattern := "%" + params.Search + "%"

	countQuery := `
		SELECT count(*) FROM users
		WHERE ($1 = '' OR name ILIKE $2 OR email ILIKE $2)
	`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, params.Search, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM users
		WHERE ($1 = '' OR name ILIKE $2 OR email ILIKE $2)
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4
	`

	offset := (params.Page - 1) * params.Limit
	rows, err := r.pool.Query(ctx, query, params.Search, pattern, params.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}

	users, err := scanUserRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	created := *user

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

	query := `
		INSERT INTO users (id, name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, email, password_hash, role, status, created_at, updated_at
	`

	return scanUserRow(r.pool.QueryRow(ctx, query,
		created.ID, created.Name, created.Email, created.PasswordHash,
		created.Role, created.Status, created.CreatedAt, created.UpdatedAt,
	))
}

func (r *PostgresUserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	query := `
		UPDATE users SET name = $1, email = $2, password_hash = $3, role = $4, status = $5, updated_at = $6
		WHERE id = $7
		RETURNING id, name, email, password_hash, role, status, created_at, updated_at
	`

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.Status, time.Now(), id,
	))
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
