package domain

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// UpcomingStatuses are the statuses counted as upcoming on the dashboard.
var UpcomingStatuses = []AppointmentStatus{AppointmentScheduled, AppointmentConfirmed}

var appointmentLabels = map[AppointmentStatus]string{
	AppointmentScheduled: "مجدول",
	AppointmentConfirmed: "مؤكد",
	AppointmentCompleted: "مكتمل",
	AppointmentCancelled: "ملغى",
	AppointmentNoShow:    "لم يحضر",
}

var appointmentBadges = map[AppointmentStatus]string{
	AppointmentScheduled: "badge-blue",
	AppointmentConfirmed: "badge-green",
	AppointmentCompleted: "badge-gray",
	AppointmentCancelled: "badge-red",
	AppointmentNoShow:    "badge-orange",
}

// Label returns the localized status, or the raw value when unknown.
func (s AppointmentStatus) Label() string {
	if l, ok := appointmentLabels[s]; ok {
		return l
	}
	return string(s)
}

// Badge returns the CSS class used to colour the status badge.
func (s AppointmentStatus) Badge() string {
	return appointmentBadges[s]
}

// Appointment is a row of the appointments table with its patient embedded.
type Appointment struct {
	ID              string            `json:"id"`
	AppointmentDate time.Time         `json:"appointment_date"`
	Purpose         string            `json:"purpose"`
	Status          AppointmentStatus `json:"status"`
	DurationMinutes int               `json:"duration_minutes"`
	PatientID       string            `json:"patient_id"`
	Patient         *PatientRef       `json:"patient,omitempty"`
}
