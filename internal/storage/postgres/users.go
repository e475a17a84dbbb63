package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/learnhub-be/internal/models"
	"github.com/hongminglow/learnhub-be/internal/storage"
)

const userColumns = `id, phone, password_hash, created_at`

// CreateUser inserts a new user row. A duplicate phone yields storage.ErrAlreadyExists,
// including when two registrations race past the service's existence check.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (phone, password_hash)
		VALUES ($1, $2)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.Phone, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByPhone fetches a user by phone number.
func (s *Store) FindByPhone(ctx context.Context, phone string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return scanUser(s.pool.QueryRow(ctx, query, phone))
}

// FindByID fetches a user by identifier.
func (s *Store) FindByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Phone, &user.PasswordHash, &user.CreatedAt); err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}
