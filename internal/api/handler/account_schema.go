package handler

import (
	"time"

	"github.com/tcapp/account-admin/internal/core/domain"
	"github.com/tcapp/account-admin/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth request / response types ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Account      accountResponse `json:"account"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

// --- Account request / response types ---

type createAccountRequest struct {
	Username    string `json:"username"     validate:"required,min=3,max=64"`
	Password    string `json:"password"     validate:"required,min=6"`
	DisplayName string `json:"display_name" validate:"max=128"`
	DeptCode    string `json:"dept_code"    validate:"max=32"`
	DeptName    string `json:"dept_name"    validate:"max=128"`
	Role        string `json:"role"         validate:"omitempty,oneof=admin manager user"`
	IsActive    *bool  `json:"is_active"`
}

type updateAccountRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=128"`
	DeptCode    *string `json:"dept_code"    validate:"omitempty,max=32"`
	DeptName    *string `json:"dept_name"    validate:"omitempty,max=128"`
	Role        *string `json:"role"         validate:"omitempty,oneof=admin manager user"`
	IsActive    *bool   `json:"is_active"`
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=128"`
}

// accountResponse is the public view of an account. The credential hash never
// leaves the service.
type accountResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	DisplayName string     `json:"display_name"`
	DeptCode    string     `json:"dept_code,omitempty"`
	DeptName    string     `json:"dept_name,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type listAccountsResponse struct {
	Accounts   []accountResponse `json:"accounts"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Role:        string(a.Role),
		DisplayName: a.DisplayName,
		DeptCode:    a.DeptCode,
		DeptName:    a.DeptName,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toListAccountsResponse(page *ports.AccountPage) listAccountsResponse {
	accounts := make([]accountResponse, 0, len(page.Accounts))
	for _, a := range page.Accounts {
		accounts = append(accounts, toAccountResponse(a))
	}
	return listAccountsResponse{
		Accounts:   accounts,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}
