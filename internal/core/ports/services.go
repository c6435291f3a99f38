package ports

import (
	"context"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
)

// SessionState is what the Session Store exposes for a browser session.
// Session is nil when nobody is signed in.
type SessionState struct {
	Session *domain.Session
	Role    domain.Role
}

// Identity returns the signed-in identity or nil.
func (s SessionState) Identity() *domain.Identity {
	if s.Session == nil {
		return nil
	}
	return &s.Session.Identity
}

// Token returns the access token or "".
func (s SessionState) Token() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.AccessToken
}

// SessionStore resolves the session state for a browser session id.
// Forget drops whatever is stored for sid.
type SessionStore interface {
	Current(ctx context.Context, sid string) (SessionState, error)
	Forget(ctx context.Context, sid string) error
}

// RegisterInput is the signup form.
type RegisterInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required,min=6"`
	FullName string `validate:"required"`
	Phone    string `validate:"required"`
	Role     string `validate:"required,oneof=doctor secretary"`
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// AuthService runs the auth form submissions. sid is the browser session the
// resulting auth event is published for.
type AuthService interface {
	Register(ctx context.Context, sid string, in RegisterInput) error
	Login(ctx context.Context, sid string, in LoginInput) error
	Logout(ctx context.Context, sid string, session *domain.Session) error
}

// NewPatientInput is the intake form. Only FullName and Phone are required.
type NewPatientInput struct {
	FullName              string `validate:"required"`
	Phone                 string `validate:"required"`
	Email                 string `validate:"omitempty,email"`
	DateOfBirth           string `validate:"omitempty,datetime=2006-01-02"`
	Gender                string `validate:"omitempty,oneof=male female"`
	Address               string
	BloodType             string `validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	EmergencyContactName  string
	EmergencyContactPhone string
	Notes                 string
}

// PatientDetail is the patient record page.
type PatientDetail struct {
	Patient      domain.Patient
	Visits       []domain.Visit
	Appointments []domain.Appointment
}

// PatientService backs the patient list, intake and detail pages.
type PatientService interface {
	List(ctx context.Context, state SessionState) ([]domain.Patient, error)
	Get(ctx context.Context, state SessionState, id string) (*PatientDetail, error)
	Create(ctx context.Context, state SessionState, in NewPatientInput) (*domain.Patient, error)
}

// VisitService backs the visit log page.
type VisitService interface {
	ListRecent(ctx context.Context, state SessionState) ([]domain.Visit, error)
}

// AppointmentService backs the appointment list page.
type AppointmentService interface {
	List(ctx context.Context, state SessionState) ([]domain.Appointment, error)
}

// DashboardStats are the four dashboard counters.
type DashboardStats struct {
	TotalPatients        int
	TodayAppointments    int
	ThisMonthVisits      int
	UpcomingAppointments int
}

// DashboardService backs the home page.
type DashboardService interface {
	Stats(ctx context.Context, state SessionState) (*DashboardStats, error)
}
