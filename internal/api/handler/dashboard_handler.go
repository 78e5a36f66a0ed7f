package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tcapp/account-admin/internal/core/ports"
)

// DashboardHandler serves aggregate views over the account store.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats returns account totals and the month-over-month growth rate.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// RecentActivity returns the latest account creations and updates.
//
// @Summary      Recent account activity
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.ActivityEntry
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/activity [get]
func (h *DashboardHandler) RecentActivity(c echo.Context) error {
	entries, err := h.service.RecentActivity(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
