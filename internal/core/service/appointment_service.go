package service

import (
	"context"
	"fmt"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

type AppointmentService struct {
	appointments ports.AppointmentRepository
}

func NewAppointmentService(appointments ports.AppointmentRepository) *AppointmentService {
	return &AppointmentService{appointments: appointments}
}

// List returns all appointments, earliest first.
func (s *AppointmentService) List(ctx context.Context, state ports.SessionState) ([]domain.Appointment, error) {
	if state.Session == nil {
		return nil, domain.ErrUnauthenticated
	}
	appointments, err := s.appointments.List(ctx, state.Token())
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}
