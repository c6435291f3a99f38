package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

// DashboardService computes the home page counters in the clinic's time zone.
type DashboardService struct {
	patients     ports.PatientRepository
	visits       ports.VisitRepository
	appointments ports.AppointmentRepository
	loc          *time.Location
	now          func() time.Time
}

// NewDashboardService uses time.Now when now is nil and UTC when loc is nil.
func NewDashboardService(
	patients ports.PatientRepository,
	visits ports.VisitRepository,
	appointments ports.AppointmentRepository,
	loc *time.Location,
	now func() time.Time,
) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardService{patients: patients, visits: visits, appointments: appointments, loc: loc, now: now}
}

func (s *DashboardService) Stats(ctx context.Context, state ports.SessionState) (*ports.DashboardStats, error) {
	if state.Session == nil {
		return nil, domain.ErrUnauthenticated
	}
	token := state.Token()
	now := s.now().In(s.loc)
	dayStart, dayEnd := DayWindow(now)

	var (
		stats ports.DashboardStats
		err   error
	)
	if stats.TotalPatients, err = s.patients.Count(ctx, token); err != nil {
		return nil, fmt.Errorf("dashboard: patients: %w", err)
	}
	if stats.TodayAppointments, err = s.appointments.CountBetween(ctx, token, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("dashboard: today's appointments: %w", err)
	}
	if stats.ThisMonthVisits, err = s.visits.CountSince(ctx, token, MonthStart(now)); err != nil {
		return nil, fmt.Errorf("dashboard: month visits: %w", err)
	}
	if stats.UpcomingAppointments, err = s.appointments.CountUpcoming(ctx, token, now, domain.UpcomingStatuses); err != nil {
		return nil, fmt.Errorf("dashboard: upcoming appointments: %w", err)
	}
	return &stats, nil
}

// DayWindow returns [start of t's day, start of the next day) in t's location.
func DayWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// MonthStart returns midnight on the first of t's month in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
