package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tcapp/account-admin/internal/core/domain"
	"github.com/tcapp/account-admin/internal/core/ports"
)

type stubAuthService struct {
	loginFn          func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	refreshFn        func(ctx context.Context, refreshToken string) (string, error)
	changePasswordFn func(ctx context.Context, accountID, currentPassword, newPassword string) error
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	return s.changePasswordFn(ctx, accountID, currentPassword, newPassword)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testAccount(id, username string, role domain.Role) *domain.Account {
	now := time.Now().UTC()
	return &domain.Account{
		ID:        id,
		Username:  username,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "secret123" {
				t.Fatalf("unexpected credentials: %s %s", username, password)
			}
			return &ports.LoginResult{
				Account: testAccount("user_1", "alice", domain.RoleAdmin),
				Tokens:  ports.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
			}, nil
		},
	}
	h := NewAuthHandler(stub, nil)

	c, rec := jsonContext(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "access" || resp["refresh_token"] != "refresh" {
		t.Fatalf("unexpected tokens in response: %v", resp)
	}
	account, ok := resp["account"].(map[string]any)
	if !ok {
		t.Fatalf("missing account in response: %v", resp)
	}
	if account["username"] != "alice" || account["role"] != "admin" {
		t.Fatalf("unexpected account payload: %v", account)
	}
	if _, leaked := account["credential_hash"]; leaked {
		t.Fatal("response must not contain credential hash")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, password string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, nil)

	c, _ := jsonContext(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)
	err := h.Login(c)
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, nil)

	c, _ := jsonContext(e, http.MethodPost, "/auth/login", `{"username":"alice"}`)
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", he.Code)
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (string, error) {
			if refreshToken != "refresh-token" {
				t.Fatalf("unexpected token: %s", refreshToken)
			}
			return "new-access", nil
		},
	}
	h := NewAuthHandler(stub, nil)

	c, rec := jsonContext(e, http.MethodPost, "/auth/refresh", `{"refresh_token":"refresh-token"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "new-access" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestAuthHandler_Refresh_InvalidToken(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		refreshFn: func(ctx context.Context, refreshToken string) (string, error) {
			return "", domain.ErrInvalidToken
		},
	}
	h := NewAuthHandler(stub, nil)

	c, _ := jsonContext(e, http.MethodPost, "/auth/refresh", `{"refresh_token":"stale"}`)
	if err := h.Refresh(c); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthHandler_Logout_NoContent(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, nil)

	c, rec := jsonContext(e, http.MethodPost, "/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		changePasswordFn: func(ctx context.Context, accountID, currentPassword, newPassword string) error {
			if accountID != "user_1" || currentPassword != "old-pass" || newPassword != "new-pass" {
				t.Fatalf("unexpected args: %s %s %s", accountID, currentPassword, newPassword)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub, nil)

	c, rec := jsonContext(e, http.MethodPut, "/auth/password", `{"current_password":"old-pass","new_password":"new-pass"}`)
	c.Set("account_id", "user_1")
	c.Set("role", "user")

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{}, nil)

	c, _ := jsonContext(e, http.MethodPut, "/auth/password", `{"current_password":"a","new_password":"b12345"}`)
	err := h.ChangePassword(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_Profile_Success(t *testing.T) {
	e := newTestEcho()
	accounts := &stubAccountService{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id != "user_1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return testAccount("user_1", "alice", domain.RoleUser), nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, accounts)

	c, rec := jsonContext(e, http.MethodGet, "/auth/profile", "")
	c.Set("account_id", "user_1")
	c.Set("role", "user")

	if err := h.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "user_1" || resp["username"] != "alice" {
		t.Fatalf("unexpected profile: %v", resp)
	}
}

func TestAuthHandler_UpdateProfile_Success(t *testing.T) {
	e := newTestEcho()
	accounts := &stubAccountService{
		updateProfileFn: func(ctx context.Context, accountID, displayName string) (*domain.Account, error) {
			if accountID != "user_1" || displayName != "Alice A." {
				t.Fatalf("unexpected args: %s %s", accountID, displayName)
			}
			a := testAccount("user_1", "alice", domain.RoleUser)
			a.DisplayName = displayName
			return a, nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, accounts)

	c, rec := jsonContext(e, http.MethodPut, "/auth/profile", `{"display_name":"Alice A."}`)
	c.Set("account_id", "user_1")
	c.Set("role", "user")

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
