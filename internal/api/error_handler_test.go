package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tcapp/account-admin/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, map[string]string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized},
		{"throttled", domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"self deletion", domain.ErrSelfDeletion, http.StatusForbidden},
		{"username taken", domain.ErrUsernameTaken, http.StatusConflict},
		{"password mismatch", domain.ErrPasswordMismatch, http.StatusBadRequest},
		{"same password", domain.ErrSamePassword, http.StatusBadRequest},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := renderError(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
			if body["error"] == "" {
				t.Fatal("expected an error message in the envelope")
			}
		})
	}
}

func TestErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := errors.Join(errors.New("update account"), domain.ErrUsernameTaken)
	code, _ := renderError(t, wrapped)
	if code != http.StatusConflict {
		t.Fatalf("expected 409 for wrapped ErrUsernameTaken, got %d", code)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body["error"] != "invalid payload" {
		t.Fatalf("unexpected message: %v", body)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque(t *testing.T) {
	code, body := renderError(t, errors.New("mongo: socket closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("internal details must not leak: %v", body)
	}
}
