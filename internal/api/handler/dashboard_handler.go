package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinic-web/internal/api/middleware"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
	"github.com/clinicdesk/clinic-web/internal/core/view"
)

type DashboardHandler struct {
	dashboard ports.DashboardService
}

func NewDashboardHandler(dashboard ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Show renders the four counters. A failed load shows zeros and a notice.
func (h *DashboardHandler) Show(c echo.Context) error {
	state := middleware.State(c)
	res := loadView(c, "dashboard", "فشل تحميل الإحصائيات", func(ctx context.Context) (*ports.DashboardStats, error) {
		return h.dashboard.Stats(ctx, state)
	})
	if res.State == view.StateCancelled {
		return nil
	}
	return render(c, http.StatusOK, "dashboard", newPage(c, "لوحة التحكم", "/", newDashboardData(res.Data), notices(res.Notice)...))
}
