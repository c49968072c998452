package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"backoffice/internal/platform/querier"
)

const UserStatusActive = "active"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type AuthUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	RoleName string `json:"role"`
	Password string `json:"-"`
	Status   string `json:"status"`
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, role, password_hash, status
    FROM users
    WHERE lower(email) = lower($1) AND status = $2
  `, email, UserStatusActive).Scan(&out.ID, &out.Email, &out.RoleName, &out.Password, &out.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return AuthUser{}, ErrUserNotFound
	}
	return out, err
}

func (s *Store) GetUser(ctx context.Context, userID string) (AuthUser, error) {
	var out AuthUser
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, role, password_hash, status
    FROM users
    WHERE id = $1
  `, userID).Scan(&out.ID, &out.Email, &out.RoleName, &out.Password, &out.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return AuthUser{}, ErrUserNotFound
	}
	return out, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

// EnsureUser inserts the user unless the email is already taken.
func (s *Store) EnsureUser(ctx context.Context, email, passwordHash, role string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO users (email, password_hash, role, status)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (email) DO NOTHING
  `, email, passwordHash, role, UserStatusActive)
	return err
}
