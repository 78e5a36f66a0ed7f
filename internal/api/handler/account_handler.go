package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tcapp/account-admin/internal/api/metrics"
	"github.com/tcapp/account-admin/internal/core/domain"
	"github.com/tcapp/account-admin/internal/core/ports"
)

// AccountHandler handles HTTP requests for account management.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Create registers a new account.
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users [post]
func (h *AccountHandler) Create(c echo.Context) error {
	_, role, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.service.Create(c.Request().Context(), role, ports.CreateAccountInput{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		DeptCode:    req.DeptCode,
		DeptName:    req.DeptName,
		Role:        domain.Role(req.Role),
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.AuthzDeniedTotal.WithLabelValues("create").Inc()
		}
		return err
	}
	metrics.AccountsCreatedTotal.WithLabelValues(string(account.Role)).Inc()

	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// List returns a filtered, paginated page of accounts.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        search     query     string  false  "Partial match on username, display name or department"
// @Param        role       query     string  false  "Filter by role"        Enums(admin, manager, user)
// @Param        is_active  query     bool    false  "Filter by active status"
// @Param        dept_code  query     string  false  "Filter by department code"
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Param        sort_by    query     string  false  "Sort field"
// @Param        order      query     string  false  "asc or desc"
// @Success      200        {object}  listAccountsResponse
// @Failure      403        {object}  errorResponse
// @Router       /users [get]
func (h *AccountHandler) List(c echo.Context) error {
	_, role, err := callerIdentity(c)
	if err != nil {
		return err
	}

	filter := parseListFilter(c)
	page, err := h.service.List(c.Request().Context(), role, filter)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.AuthzDeniedTotal.WithLabelValues("list").Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, toListAccountsResponse(page))
}

// Search returns up to 20 accounts matching a free-text query.
//
// @Summary      Search accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  true  "Search query"
// @Success      200  {array}   accountResponse
// @Router       /users/search [get]
func (h *AccountHandler) Search(c echo.Context) error {
	accounts, err := h.service.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns a single account by id.
//
// @Summary      Get an account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	account, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Update applies a partial update to an account.
//
// @Summary      Update an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Account ID"
// @Param        body  body      updateAccountRequest  true  "Fields to update"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	_, role, err := callerIdentity(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := ports.UpdateAccountFields{
		DisplayName: req.DisplayName,
		DeptCode:    req.DeptCode,
		DeptName:    req.DeptName,
		IsActive:    req.IsActive,
	}
	if req.Role != nil {
		r := domain.Role(*req.Role)
		patch.Role = &r
	}

	account, err := h.service.Update(c.Request().Context(), role, c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.AuthzDeniedTotal.WithLabelValues("update").Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// ToggleStatus flips an account between active and inactive.
//
// @Summary      Toggle account status
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  accountResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/status [patch]
func (h *AccountHandler) ToggleStatus(c echo.Context) error {
	_, role, err := callerIdentity(c)
	if err != nil {
		return err
	}

	account, err := h.service.ToggleStatus(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			metrics.AuthzDeniedTotal.WithLabelValues("toggle_status").Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Delete removes an account.
//
// @Summary      Delete an account
// @Tags         accounts
// @Security     BearerAuth
// @Param        id   path  string  true  "Account ID"
// @Success      204  "No Content"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	deleterID, role, err := callerIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), role, deleterID, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrSelfDeletion) {
			metrics.AuthzDeniedTotal.WithLabelValues("delete").Inc()
		}
		return err
	}
	metrics.AccountsDeletedTotal.Inc()

	return c.NoContent(http.StatusNoContent)
}

// parseListFilter extracts listing query parameters. Invalid numbers fall back
// to zero and let the service apply its defaults.
func parseListFilter(c echo.Context) ports.ListAccountsFilter {
	filter := ports.ListAccountsFilter{
		Search:   c.QueryParam("search"),
		Role:     domain.Role(c.QueryParam("role")),
		DeptCode: c.QueryParam("dept_code"),
		SortBy:   c.QueryParam("sort_by"),
		SortDesc: c.QueryParam("order") != "asc",
	}
	if v := c.QueryParam("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			filter.IsActive = &active
		}
	}
	if page, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		filter.Limit = limit
	}
	return filter
}
