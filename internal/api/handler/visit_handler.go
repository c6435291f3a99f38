package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinic-web/internal/api/middleware"
	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
	"github.com/clinicdesk/clinic-web/internal/core/view"
)

type VisitHandler struct {
	visits ports.VisitService
}

func NewVisitHandler(visits ports.VisitService) *VisitHandler {
	return &VisitHandler{visits: visits}
}

type visitListData struct {
	Loaded bool
	Failed bool
	Visits []domain.Visit
}

func (h *VisitHandler) List(c echo.Context) error {
	state := middleware.State(c)
	res := loadView(c, "visits", "فشل تحميل قائمة الزيارات", func(ctx context.Context) ([]domain.Visit, error) {
		return h.visits.ListRecent(ctx, state)
	})
	if res.State == view.StateCancelled {
		return nil
	}
	data := visitListData{Loaded: res.Loaded(), Failed: res.State == view.StateFailed, Visits: res.Data}
	return render(c, http.StatusOK, "visits", newPage(c, "الزيارات", "/visits", data, notices(res.Notice)...))
}
