package ports

import (
	"context"
	"time"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
)

// Every repository call takes the caller's access token so the gateway can
// apply row-level security. An empty token means anonymous.

// RoleRepository reads and writes the user_roles table.
type RoleRepository interface {
	Assign(ctx context.Context, token, userID string, role domain.Role) error
	// Lookup returns domain.RoleUnknown, not an error, when no row exists.
	Lookup(ctx context.Context, token, userID string) (domain.Role, error)
}

// PatientRepository reads and writes the patients table.
type PatientRepository interface {
	// List returns every visible patient, newest first.
	List(ctx context.Context, token string) ([]domain.Patient, error)
	FindByID(ctx context.Context, token, id string) (*domain.Patient, error)
	// FindByPhone returns nil, nil when no patient has that phone.
	FindByPhone(ctx context.Context, token, phone string) (*domain.Patient, error)
	Create(ctx context.Context, token string, p *domain.Patient) (*domain.Patient, error)
	Count(ctx context.Context, token string) (int, error)
}

// VisitRepository reads the visits table.
type VisitRepository interface {
	// ListRecent returns at most limit visits, newest visit_date first.
	ListRecent(ctx context.Context, token string, limit int) ([]domain.Visit, error)
	ListByPatient(ctx context.Context, token, patientID string) ([]domain.Visit, error)
	CountSince(ctx context.Context, token string, since time.Time) (int, error)
}

// AppointmentRepository reads the appointments table.
type AppointmentRepository interface {
	// List returns every appointment ordered by appointment_date ascending.
	List(ctx context.Context, token string) ([]domain.Appointment, error)
	ListByPatient(ctx context.Context, token, patientID string) ([]domain.Appointment, error)
	// CountBetween counts appointments with from <= appointment_date < to.
	CountBetween(ctx context.Context, token string, from, to time.Time) (int, error)
	CountUpcoming(ctx context.Context, token string, from time.Time, statuses []domain.AppointmentStatus) (int, error)
}

// SessionRecord is the server-side state kept for one browser session.
type SessionRecord struct {
	Session    domain.Session `json:"session"`
	Role       domain.Role    `json:"role"`
	ResolvedAt time.Time      `json:"resolved_at"`
}

// SessionRepository persists session records keyed by an opaque session id.
type SessionRepository interface {
	Save(ctx context.Context, sid string, rec *SessionRecord) error
	// Get returns nil, nil for an unknown or expired sid.
	Get(ctx context.Context, sid string) (*SessionRecord, error)
	Delete(ctx context.Context, sid string) error
}

// AuditRepository appends to the audit trail.
type AuditRepository interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
