package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

const embedPatient = "*,patient:patients(full_name,phone)"

var (
	_ ports.RoleRepository        = (*RoleRepository)(nil)
	_ ports.PatientRepository     = (*PatientRepository)(nil)
	_ ports.VisitRepository       = (*VisitRepository)(nil)
	_ ports.AppointmentRepository = (*AppointmentRepository)(nil)
)

// ── user_roles ────────────────────────────────────────────────────────────────

type RoleRepository struct{ c *Client }

func NewRoleRepository(c *Client) *RoleRepository { return &RoleRepository{c: c} }

type roleRow struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

func (r *RoleRepository) Assign(ctx context.Context, token, userID string, role domain.Role) error {
	var out []roleRow
	if err := r.c.From("user_roles", token).Insert(ctx, roleRow{UserID: userID, Role: role}, &out); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

func (r *RoleRepository) Lookup(ctx context.Context, token, userID string) (domain.Role, error) {
	var rows []roleRow
	err := r.c.From("user_roles", token).
		Select("role").
		Eq("user_id", userID).
		Limit(1).
		Find(ctx, &rows)
	if err != nil {
		return domain.RoleUnknown, fmt.Errorf("lookup role: %w", err)
	}
	if len(rows) == 0 {
		return domain.RoleUnknown, nil
	}
	return domain.ParseRole(string(rows[0].Role)), nil
}

// ── patients ──────────────────────────────────────────────────────────────────

type PatientRepository struct{ c *Client }

func NewPatientRepository(c *Client) *PatientRepository { return &PatientRepository{c: c} }

// patientInsert sends blank optional fields as null.
type patientInsert struct {
	FullName              string  `json:"full_name"`
	Phone                 string  `json:"phone"`
	Email                 *string `json:"email"`
	DateOfBirth           *string `json:"date_of_birth"`
	Gender                *string `json:"gender"`
	Address               *string `json:"address"`
	BloodType             *string `json:"blood_type"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	Notes                 *string `json:"notes"`
	CreatedBy             string  `json:"created_by"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *PatientRepository) List(ctx context.Context, token string) ([]domain.Patient, error) {
	var rows []domain.Patient
	if err := r.c.From("patients", token).Select("*").Order("created_at", false).Find(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PatientRepository) FindByID(ctx context.Context, token, id string) (*domain.Patient, error) {
	var rows []domain.Patient
	if err := r.c.From("patients", token).Select("*").Eq("id", id).Limit(1).Find(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrPatientNotFound
	}
	return &rows[0], nil
}

func (r *PatientRepository) FindByPhone(ctx context.Context, token, phone string) (*domain.Patient, error) {
	var rows []domain.Patient
	if err := r.c.From("patients", token).Select("id").Eq("phone", phone).Limit(1).Find(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *PatientRepository) Create(ctx context.Context, token string, p *domain.Patient) (*domain.Patient, error) {
	row := patientInsert{
		FullName:              p.FullName,
		Phone:                 p.Phone,
		Email:                 nullable(p.Email),
		DateOfBirth:           nullable(p.DateOfBirth),
		Gender:                nullable(p.Gender),
		Address:               nullable(p.Address),
		BloodType:             nullable(p.BloodType),
		EmergencyContactName:  nullable(p.EmergencyContactName),
		EmergencyContactPhone: nullable(p.EmergencyContactPhone),
		Notes:                 nullable(p.Notes),
		CreatedBy:             p.CreatedBy,
	}

	var out []domain.Patient
	if err := r.c.From("patients", token).Insert(ctx, row, &out); err != nil {
		var gerr *Error
		if errors.As(err, &gerr) && gerr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %w", domain.ErrDuplicatePatient, err)
		}
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("insert patient: empty representation")
	}
	return &out[0], nil
}

func (r *PatientRepository) Count(ctx context.Context, token string) (int, error) {
	return r.c.From("patients", token).Select("id").Count(ctx)
}

// ── visits ────────────────────────────────────────────────────────────────────

type VisitRepository struct{ c *Client }

func NewVisitRepository(c *Client) *VisitRepository { return &VisitRepository{c: c} }

func (r *VisitRepository) ListRecent(ctx context.Context, token string, limit int) ([]domain.Visit, error) {
	var rows []domain.Visit
	err := r.c.From("visits", token).
		Select(embedPatient).
		Order("visit_date", false).
		Limit(limit).
		Find(ctx, &rows)
	return rows, err
}

func (r *VisitRepository) ListByPatient(ctx context.Context, token, patientID string) ([]domain.Visit, error) {
	var rows []domain.Visit
	err := r.c.From("visits", token).
		Select("*").
		Eq("patient_id", patientID).
		Order("visit_date", false).
		Find(ctx, &rows)
	return rows, err
}

func (r *VisitRepository) CountSince(ctx context.Context, token string, since time.Time) (int, error) {
	return r.c.From("visits", token).Select("id").Gte("visit_date", since).Count(ctx)
}

// ── appointments ──────────────────────────────────────────────────────────────

type AppointmentRepository struct{ c *Client }

func NewAppointmentRepository(c *Client) *AppointmentRepository {
	return &AppointmentRepository{c: c}
}

func (r *AppointmentRepository) List(ctx context.Context, token string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.c.From("appointments", token).
		Select(embedPatient).
		Order("appointment_date", true).
		Find(ctx, &rows)
	return rows, err
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, token, patientID string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.c.From("appointments", token).
		Select("*").
		Eq("patient_id", patientID).
		Order("appointment_date", true).
		Find(ctx, &rows)
	return rows, err
}

func (r *AppointmentRepository) CountBetween(ctx context.Context, token string, from, to time.Time) (int, error) {
	return r.c.From("appointments", token).
		Select("id").
		Gte("appointment_date", from).
		Lt("appointment_date", to).
		Count(ctx)
}

func (r *AppointmentRepository) CountUpcoming(ctx context.Context, token string, from time.Time, statuses []domain.AppointmentStatus) (int, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return r.c.From("appointments", token).
		Select("id").
		Gte("appointment_date", from).
		In("status", values...).
		Count(ctx)
}
