package domain

import "time"

// Visit is a row of the visits table with its patient embedded.
type Visit struct {
	ID             string      `json:"id"`
	VisitDate      time.Time   `json:"visit_date"`
	ChiefComplaint string      `json:"chief_complaint"`
	Diagnosis      string      `json:"diagnosis,omitempty"`
	PatientID      string      `json:"patient_id"`
	Patient        *PatientRef `json:"patient,omitempty"`
}
