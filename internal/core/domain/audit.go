package domain

import "time"

// Audit actions recorded by the form submission handlers.
const (
	AuditPatientCreated          = "patient.created"
	AuditPatientDuplicate        = "patient.duplicate"
	AuditRegistrationCompleted   = "registration.completed"
	AuditRegistrationCompensated = "registration.compensated"
	AuditRegistrationOrphaned    = "registration.orphaned"
)

// AuditEvent is one entry of the write-side audit trail.
type AuditEvent struct {
	Action  string
	ActorID string
	Subject string
	Detail  string
	At      time.Time
}
