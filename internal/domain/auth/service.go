package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

const AccessTokenTTL = 12 * time.Hour

type StoreAPI interface {
	FindActiveUserByEmail(ctx context.Context, email string) (AuthUser, error)
	GetUser(ctx context.Context, userID string) (AuthUser, error)
	UpdateLastLogin(ctx context.Context, userID string) error
}

type Service struct {
	store  StoreAPI
	secret string
}

func NewService(store StoreAPI, secret string) *Service {
	return &Service{store: store, secret: secret}
}

type LoginResult struct {
	AccessToken string   `json:"accessToken"`
	ExpiresIn   int64    `json:"expiresIn"`
	User        AuthUser `json:"user"`
}

// Login checks the credentials and issues an access token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.store.FindActiveUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrUserNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if err := CheckPassword(user.Password, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, Email: user.Email, RoleName: user.RoleName}, AccessTokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.store.UpdateLastLogin(ctx, user.ID); err != nil {
		slog.Warn("update last login failed", "userId", user.ID, "err", err)
	}
	return LoginResult{AccessToken: token, ExpiresIn: int64(AccessTokenTTL.Seconds()), User: user}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (AuthUser, error) {
	return s.store.GetUser(ctx, userID)
}
