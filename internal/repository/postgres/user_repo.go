package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"liftpark/internal/db"
	apperrors "liftpark/internal/errors"
	"liftpark/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(sqlDB *sql.DB) repository.UserRepository {
	return &userRepository{db: sqlDB}
}

func (r *userRepository) Create(ctx context.Context, user *db.User) error {
	query := `INSERT INTO users (username, email, phone, password_hash, role, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW())
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Phone, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return apperrors.Conflict("username %q already taken", user.Username)
		}
		return fmt.Errorf("UserRepository.Create: %w", err)
	}
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	u := &db.User{}
	query := `SELECT id, username, email, phone, password_hash, role, created_at FROM users WHERE username = $1`
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user %q not found", username)
		}
		return nil, fmt.Errorf("UserRepository.GetByUsername: %w", err)
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*db.User, error) {
	u := &db.User{}
	query := `SELECT id, username, email, phone, password_hash, role, created_at FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user %d not found", id)
		}
		return nil, fmt.Errorf("UserRepository.GetByID: %w", err)
	}
	return u, nil
}
