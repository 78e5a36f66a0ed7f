package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tcapp/account-admin/internal/core/domain"
)

// callerIdentity reads the authenticated account identity the auth middleware
// stored on the request context. Handlers behind the middleware use it to
// pass the acting account to the service layer.
func callerIdentity(c echo.Context) (accountID string, role domain.Role, err error) {
	id, ok := c.Get("account_id").(string)
	if !ok || id == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication context")
	}
	roleStr, _ := c.Get("role").(string)
	return id, domain.Role(roleStr), nil
}
