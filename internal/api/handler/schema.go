package handler

import (
	"strings"

	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (f loginForm) toInput() ports.LoginInput {
	return ports.LoginInput{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

type registerForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	FullName string `form:"full_name"`
	Phone    string `form:"phone"`
	Role     string `form:"role"`
}

func (f registerForm) toInput() ports.RegisterInput {
	return ports.RegisterInput{
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		FullName: strings.TrimSpace(f.FullName),
		Phone:    strings.TrimSpace(f.Phone),
		Role:     f.Role,
	}
}

type patientForm struct {
	FullName              string `form:"full_name"`
	Phone                 string `form:"phone"`
	Email                 string `form:"email"`
	DateOfBirth           string `form:"date_of_birth"`
	Gender                string `form:"gender"`
	Address               string `form:"address"`
	BloodType             string `form:"blood_type"`
	EmergencyContactName  string `form:"emergency_contact_name"`
	EmergencyContactPhone string `form:"emergency_contact_phone"`
	Notes                 string `form:"notes"`
}

func (f patientForm) toInput() ports.NewPatientInput {
	t := strings.TrimSpace
	return ports.NewPatientInput{
		FullName:              t(f.FullName),
		Phone:                 t(f.Phone),
		Email:                 t(f.Email),
		DateOfBirth:           t(f.DateOfBirth),
		Gender:                t(f.Gender),
		Address:               t(f.Address),
		BloodType:             t(f.BloodType),
		EmergencyContactName:  t(f.EmergencyContactName),
		EmergencyContactPhone: t(f.EmergencyContactPhone),
		Notes:                 t(f.Notes),
	}
}

// authData feeds auth.html. Passwords are never echoed back.
type authData struct {
	Tab      string
	Email    string
	FullName string
	Phone    string
	Role     string
}

type statCard struct {
	Title string
	Value int
	Icon  string
	Tone  string
}

type dashboardData struct {
	Cards []statCard
}

func newDashboardData(s *ports.DashboardStats) dashboardData {
	if s == nil {
		s = &ports.DashboardStats{}
	}
	return dashboardData{Cards: []statCard{
		{Title: "إجمالي المرضى", Value: s.TotalPatients, Icon: "users", Tone: "primary"},
		{Title: "مواعيد اليوم", Value: s.TodayAppointments, Icon: "calendar", Tone: "secondary"},
		{Title: "زيارات هذا الشهر", Value: s.ThisMonthVisits, Icon: "clipboard", Tone: "accent"},
		{Title: "المواعيد القادمة", Value: s.UpcomingAppointments, Icon: "trending", Tone: "green"},
	}}
}
