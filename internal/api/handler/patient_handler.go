package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-web/internal/api/metrics"
	"github.com/clinicdesk/clinic-web/internal/api/middleware"
	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
	"github.com/clinicdesk/clinic-web/internal/core/service"
	"github.com/clinicdesk/clinic-web/internal/core/view"
)

type PatientHandler struct {
	patients ports.PatientService
	log      zerolog.Logger
}

func NewPatientHandler(patients ports.PatientService, log zerolog.Logger) *PatientHandler {
	return &PatientHandler{patients: patients, log: log}
}

type patientListData struct {
	Query     string
	Loaded    bool
	Failed    bool
	Patients  []domain.Patient
	EmptyText string
}

type patientFormData struct {
	Input      ports.NewPatientInput
	BloodTypes []string
}

type patientDetailData struct {
	Loaded bool
	Detail *ports.PatientDetail
}

// List handles GET /patients?q=. The filter runs over the loaded rows with
// the query exactly as typed.
func (h *PatientHandler) List(c echo.Context) error {
	state := middleware.State(c)
	query := c.QueryParam("q")

	res := loadView(c, "patients", "فشل تحميل قائمة المرضى", func(ctx context.Context) ([]domain.Patient, error) {
		return h.patients.List(ctx, state)
	})
	if res.State == view.StateCancelled {
		return nil
	}

	data := patientListData{
		Query:     query,
		Loaded:    res.Loaded(),
		Failed:    res.State == view.StateFailed,
		Patients:  service.FilterPatients(res.Data, query),
		EmptyText: "لا يوجد مرضى مسجلين",
	}
	if strings.TrimSpace(query) != "" {
		data.EmptyText = "لم يتم العثور على نتائج"
	}
	return render(c, http.StatusOK, "patients", newPage(c, "المرضى", "/patients", data, notices(res.Notice)...))
}

func (h *PatientHandler) New(c echo.Context) error {
	data := patientFormData{BloodTypes: domain.BloodTypes}
	return render(c, http.StatusOK, "patient_new", newPage(c, "إضافة مريض جديد", "/patients", data))
}

// Create handles the intake form. Any failure re-renders the form with the
// entered values and no navigation.
func (h *PatientHandler) Create(c echo.Context) error {
	var form patientForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in := form.toInput()

	patient, err := h.patients.Create(c.Request().Context(), middleware.State(c), in)
	metrics.FormsSubmittedTotal.WithLabelValues("patient", outcome(err)).Inc()
	if err != nil {
		var n view.Notice
		var ve *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrDuplicatePatient):
			n = view.Notice{Title: "تنبيه", Description: domain.Message(err, "")}
		case errors.As(err, &ve):
			n = view.Notice{Title: "خطأ", Description: ve.Message, Destructive: true}
		case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrForbidden):
			return err
		default:
			h.log.Error().Err(err).Msg("patient insert failed")
			n = view.Notice{Title: "خطأ", Description: "فشل إضافة المريض", Destructive: true}
		}
		data := patientFormData{Input: in, BloodTypes: domain.BloodTypes}
		return render(c, http.StatusOK, "patient_new", newPage(c, "إضافة مريض جديد", "/patients", data, n))
	}

	setFlash(c, view.Notice{Title: "نجح", Description: "تم إضافة المريض بنجاح"})
	return redirect(c, "/patients/"+patient.ID)
}

// Show renders the patient record with its visits and appointments.
func (h *PatientHandler) Show(c echo.Context) error {
	state := middleware.State(c)
	id := c.Param("id")

	res := loadView(c, "patient", "فشل تحميل بيانات المريض", func(ctx context.Context) (*ports.PatientDetail, error) {
		return h.patients.Get(ctx, state, id)
	})
	if res.State == view.StateCancelled {
		return nil
	}

	status := http.StatusOK
	if errors.Is(res.Err, domain.ErrPatientNotFound) {
		status = http.StatusNotFound
	}
	title := "ملف المريض"
	if res.Data != nil {
		title = res.Data.Patient.FullName
	}
	data := patientDetailData{Loaded: res.Loaded(), Detail: res.Data}
	return render(c, status, "patient_detail", newPage(c, title, "/patients", data, notices(res.Notice)...))
}
