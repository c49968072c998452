package authhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"backoffice/internal/domain/auth"
	"backoffice/internal/transport/http/middleware"
)

const testSecret = "handler-test-secret"

type memoryUsers map[string]auth.AuthUser

func (m memoryUsers) FindActiveUserByEmail(ctx context.Context, email string) (auth.AuthUser, error) {
	for _, u := range m {
		if u.Email == email && u.Status == auth.UserStatusActive {
			return u, nil
		}
	}
	return auth.AuthUser{}, auth.ErrUserNotFound
}

func (m memoryUsers) GetUser(ctx context.Context, userID string) (auth.AuthUser, error) {
	u, ok := m[userID]
	if !ok {
		return auth.AuthUser{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (m memoryUsers) UpdateLastLogin(ctx context.Context, userID string) error { return nil }

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	hash, err := auth.HashPassword("Correct-Horse-1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	users := memoryUsers{"u-1": {ID: "u-1", Email: "finance@example.com", RoleName: auth.RoleFinance, Password: hash, Status: auth.UserStatusActive}}
	h := NewHandler(auth.NewService(users, testSecret))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth(testSecret))
	h.RegisterPublicRoutes(r)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		h.RegisterRoutes(r)
	})
	return r
}

func TestLoginAndMe(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"Finance@Example.com","password":"Correct-Horse-1"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Data auth.LoginResult `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if body.Data.AccessToken == "" || body.Data.User.RoleName != auth.RoleFinance {
		t.Fatalf("unexpected login result %+v", body.Data)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.AccessToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from me, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), auth.PermPayrollWrite) {
		t.Fatalf("expected finance permissions in %s", rr.Body.String())
	}
}

func TestLoginRejections(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "wrong password", body: `{"email":"finance@example.com","password":"nope"}`, wantCode: http.StatusUnauthorized},
		{name: "unknown user", body: `{"email":"ghost@example.com","password":"Correct-Horse-1"}`, wantCode: http.StatusUnauthorized},
		{name: "missing password", body: `{"email":"finance@example.com"}`, wantCode: http.StatusBadRequest},
		{name: "malformed", body: `{"email":`, wantCode: http.StatusBadRequest},
	}

	router := newRouter(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestMeRequiresToken(t *testing.T) {
	router := newRouter(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
