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

type AppointmentHandler struct {
	appointments ports.AppointmentService
}

func NewAppointmentHandler(appointments ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type appointmentListData struct {
	Loaded       bool
	Failed       bool
	Appointments []domain.Appointment
}

func (h *AppointmentHandler) List(c echo.Context) error {
	state := middleware.State(c)
	res := loadView(c, "appointments", "فشل تحميل قائمة المواعيد", func(ctx context.Context) ([]domain.Appointment, error) {
		return h.appointments.List(ctx, state)
	})
	if res.State == view.StateCancelled {
		return nil
	}
	data := appointmentListData{Loaded: res.Loaded(), Failed: res.State == view.StateFailed, Appointments: res.Data}
	return render(c, http.StatusOK, "appointments", newPage(c, "المواعيد", "/appointments", data, notices(res.Notice)...))
}
