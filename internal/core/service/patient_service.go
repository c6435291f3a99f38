package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

type PatientService struct {
	patients     ports.PatientRepository
	visits       ports.VisitRepository
	appointments ports.AppointmentRepository
	audit        ports.AuditRepository
	now          func() time.Time
	log          zerolog.Logger
}

func NewPatientService(
	patients ports.PatientRepository,
	visits ports.VisitRepository,
	appointments ports.AppointmentRepository,
	audit ports.AuditRepository,
	log zerolog.Logger,
) *PatientService {
	if audit == nil {
		audit = nopAudit{}
	}
	return &PatientService{
		patients:     patients,
		visits:       visits,
		appointments: appointments,
		audit:        audit,
		now:          time.Now,
		log:          log,
	}
}

// List returns every patient visible to the caller, newest first.
func (s *PatientService) List(ctx context.Context, state ports.SessionState) ([]domain.Patient, error) {
	if state.Session == nil {
		return nil, domain.ErrUnauthenticated
	}
	patients, err := s.patients.List(ctx, state.Token())
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	return patients, nil
}

// Get returns a patient with their visits and appointments.
func (s *PatientService) Get(ctx context.Context, state ports.SessionState, id string) (*ports.PatientDetail, error) {
	if state.Session == nil {
		return nil, domain.ErrUnauthenticated
	}
	token := state.Token()

	patient, err := s.patients.FindByID(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	visits, err := s.visits.ListByPatient(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("get patient: visits: %w", err)
	}
	appointments, err := s.appointments.ListByPatient(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("get patient: appointments: %w", err)
	}

	return &ports.PatientDetail{Patient: *patient, Visits: visits, Appointments: appointments}, nil
}

// Create runs patient intake. The phone check before the insert is advisory:
// two concurrent submissions can both pass it, and only the gateway's unique
// constraint decides. A constraint violation is reported as
// ErrDuplicatePatient as well.
func (s *PatientService) Create(ctx context.Context, state ports.SessionState, in ports.NewPatientInput) (*domain.Patient, error) {
	identity := state.Identity()
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	in = trimPatientInput(in)
	if err := validateInput(in, patientMessages); err != nil {
		return nil, err
	}

	token := state.Token()
	existing, err := s.patients.FindByPhone(ctx, token, in.Phone)
	if err != nil {
		return nil, fmt.Errorf("create patient: duplicate check: %w", err)
	}
	if existing != nil {
		s.record(ctx, domain.AuditPatientDuplicate, identity.ID, existing.ID)
		return nil, domain.ErrDuplicatePatient
	}

	created, err := s.patients.Create(ctx, token, &domain.Patient{
		FullName:              in.FullName,
		Phone:                 in.Phone,
		Email:                 in.Email,
		DateOfBirth:           in.DateOfBirth,
		Gender:                in.Gender,
		Address:               in.Address,
		BloodType:             in.BloodType,
		EmergencyContactName:  in.EmergencyContactName,
		EmergencyContactPhone: in.EmergencyContactPhone,
		Notes:                 in.Notes,
		CreatedBy:             identity.ID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicatePatient) {
			return nil, err
		}
		return nil, fmt.Errorf("create patient: %w", err)
	}

	s.record(ctx, domain.AuditPatientCreated, identity.ID, created.ID)
	s.log.Info().Str("patient_id", created.ID).Str("created_by", identity.ID).Msg("patient created")
	return created, nil
}

func (s *PatientService) record(ctx context.Context, action, actor, subject string) {
	err := s.audit.Record(ctx, domain.AuditEvent{Action: action, ActorID: actor, Subject: subject, At: s.now().UTC()})
	if err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("failed to write audit event")
	}
}

func trimPatientInput(in ports.NewPatientInput) ports.NewPatientInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	in.Address = strings.TrimSpace(in.Address)
	in.EmergencyContactName = strings.TrimSpace(in.EmergencyContactName)
	in.EmergencyContactPhone = strings.TrimSpace(in.EmergencyContactPhone)
	return in
}

// FilterPatients returns the patients matching q: a case-insensitive
// substring of the name or email, or a plain substring of the phone. It
// always works on the full list it is given; an empty q returns it unchanged.
func FilterPatients(all []domain.Patient, q string) []domain.Patient {
	if q == "" {
		return all
	}
	needle := strings.ToLower(q)

	out := make([]domain.Patient, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.FullName), needle) ||
			strings.Contains(p.Phone, q) ||
			(p.Email != "" && strings.Contains(strings.ToLower(p.Email), needle)) {
			out = append(out, p)
		}
	}
	return out
}
