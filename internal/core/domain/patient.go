package domain

import "time"

// Gender values accepted by the intake form.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// BloodTypes lists the blood groups offered on intake, in display order.
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// Patient is a row of the gateway's patients table.
type Patient struct {
	ID                    string    `json:"id"`
	FullName              string    `json:"full_name"`
	Phone                 string    `json:"phone"`
	Email                 string    `json:"email,omitempty"`
	DateOfBirth           string    `json:"date_of_birth,omitempty"`
	Gender                string    `json:"gender,omitempty"`
	Address               string    `json:"address,omitempty"`
	BloodType             string    `json:"blood_type,omitempty"`
	EmergencyContactName  string    `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string    `json:"emergency_contact_phone,omitempty"`
	Notes                 string    `json:"notes,omitempty"`
	CreatedBy             string    `json:"created_by,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// GenderLabel returns the localized gender, or "-".
func (p Patient) GenderLabel() string {
	switch p.Gender {
	case GenderMale:
		return "ذكر"
	case GenderFemale:
		return "أنثى"
	default:
		return "-"
	}
}

// PatientRef is the slice of a patient embedded into visits and appointments.
type PatientRef struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}
