package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Gateway stubs
// ---------------------------------------------------------------------------

type remoteErr struct {
	status int
	msg    string
}

func (e *remoteErr) Error() string         { return "gateway: " + e.msg }
func (e *remoteErr) RemoteMessage() string { return e.msg }

type stubAuthGateway struct {
	calls int

	signUpFn     func(in ports.SignUpInput) (*ports.SignUpResult, error)
	signInFn     func(email, password string) (*domain.Session, error)
	refreshFn    func(refreshToken string) (*domain.Session, error)
	signOutErr   error
	users        map[string]*domain.Identity // access token -> identity
	deleteErr    error
	deletedUsers []string
}

func (g *stubAuthGateway) SignUp(_ context.Context, in ports.SignUpInput) (*ports.SignUpResult, error) {
	g.calls++
	return g.signUpFn(in)
}

func (g *stubAuthGateway) SignIn(_ context.Context, email, password string) (*domain.Session, error) {
	g.calls++
	return g.signInFn(email, password)
}

func (g *stubAuthGateway) Refresh(_ context.Context, refreshToken string) (*domain.Session, error) {
	g.calls++
	return g.refreshFn(refreshToken)
}

func (g *stubAuthGateway) SignOut(_ context.Context, _ string) error {
	g.calls++
	return g.signOutErr
}

func (g *stubAuthGateway) User(_ context.Context, accessToken string) (*domain.Identity, error) {
	g.calls++
	id, ok := g.users[accessToken]
	if !ok {
		return nil, &remoteErr{status: 401, msg: "invalid JWT"}
	}
	clone := *id
	return &clone, nil
}

func (g *stubAuthGateway) DeleteUser(_ context.Context, id string) error {
	g.calls++
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deletedUsers = append(g.deletedUsers, id)
	return nil
}

type stubRoleRepo struct {
	roles     map[string]domain.Role
	assignErr error
	lookupErr error
	assigned  int
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]domain.Role)}
}

func (r *stubRoleRepo) Assign(_ context.Context, _ string, userID string, role domain.Role) error {
	r.assigned++
	if r.assignErr != nil {
		return r.assignErr
	}
	r.roles[userID] = role
	return nil
}

func (r *stubRoleRepo) Lookup(_ context.Context, _ string, userID string) (domain.Role, error) {
	if r.lookupErr != nil {
		return domain.RoleUnknown, r.lookupErr
	}
	return r.roles[userID], nil
}

// ---------------------------------------------------------------------------
// Data stubs
// ---------------------------------------------------------------------------

type stubPatientRepo struct {
	rows      []domain.Patient
	createErr error
	listErr   error
	inserts   int
	lastToken string
}

func (r *stubPatientRepo) List(_ context.Context, token string) ([]domain.Patient, error) {
	r.lastToken = token
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := append([]domain.Patient(nil), r.rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubPatientRepo) FindByID(_ context.Context, _ string, id string) (*domain.Patient, error) {
	for _, p := range r.rows {
		if p.ID == id {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrPatientNotFound
}

func (r *stubPatientRepo) FindByPhone(_ context.Context, _ string, phone string) (*domain.Patient, error) {
	for _, p := range r.rows {
		if p.Phone == phone {
			clone := p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *stubPatientRepo) Create(_ context.Context, _ string, p *domain.Patient) (*domain.Patient, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.inserts++
	clone := *p
	clone.ID = "patient-" + p.Phone
	clone.CreatedAt = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	r.rows = append(r.rows, clone)
	return &clone, nil
}

func (r *stubPatientRepo) Count(context.Context, string) (int, error) {
	return len(r.rows), nil
}

type countCall struct {
	from, to time.Time
	statuses []domain.AppointmentStatus
}

type stubVisitRepo struct {
	rows      []domain.Visit
	lastLimit int
	since     time.Time
}

func (r *stubVisitRepo) ListRecent(_ context.Context, _ string, limit int) ([]domain.Visit, error) {
	r.lastLimit = limit
	out := append([]domain.Visit(nil), r.rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].VisitDate.After(out[j].VisitDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubVisitRepo) ListByPatient(_ context.Context, _ string, patientID string) ([]domain.Visit, error) {
	var out []domain.Visit
	for _, v := range r.rows {
		if v.PatientID == patientID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubVisitRepo) CountSince(_ context.Context, _ string, since time.Time) (int, error) {
	r.since = since
	n := 0
	for _, v := range r.rows {
		if !v.VisitDate.Before(since) {
			n++
		}
	}
	return n, nil
}

type stubAppointmentRepo struct {
	rows     []domain.Appointment
	between  countCall
	upcoming countCall
	listErr  error
}

func (r *stubAppointmentRepo) List(context.Context, string) ([]domain.Appointment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := append([]domain.Appointment(nil), r.rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppointmentDate.Before(out[j].AppointmentDate) })
	return out, nil
}

func (r *stubAppointmentRepo) ListByPatient(_ context.Context, _ string, patientID string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, a := range r.rows {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAppointmentRepo) CountBetween(_ context.Context, _ string, from, to time.Time) (int, error) {
	r.between = countCall{from: from, to: to}
	n := 0
	for _, a := range r.rows {
		if !a.AppointmentDate.Before(from) && a.AppointmentDate.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r *stubAppointmentRepo) CountUpcoming(_ context.Context, _ string, from time.Time, statuses []domain.AppointmentStatus) (int, error) {
	r.upcoming = countCall{from: from, statuses: statuses}
	n := 0
	for _, a := range r.rows {
		if a.AppointmentDate.Before(from) {
			continue
		}
		for _, s := range statuses {
			if a.Status == s {
				n++
				break
			}
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Session + audit stubs
// ---------------------------------------------------------------------------

type memSessionRepo struct {
	mu      sync.Mutex
	records map[string]ports.SessionRecord
	saveErr error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{records: make(map[string]ports.SessionRecord)}
}

func (r *memSessionRepo) Save(_ context.Context, sid string, rec *ports.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records[sid] = *rec
	return nil
}

func (r *memSessionRepo) Get(_ context.Context, sid string) (*ports.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[sid]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *memSessionRepo) Delete(_ context.Context, sid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, sid)
	return nil
}

type recordingAudit struct {
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(_ context.Context, e domain.AuditEvent) error {
	a.events = append(a.events, e)
	return nil
}

func (a *recordingAudit) actions() []string {
	out := make([]string, len(a.events))
	for i, e := range a.events {
		out[i] = e.Action
	}
	return out
}

func signedIn(id, email string) ports.SessionState {
	return ports.SessionState{
		Session: &domain.Session{AccessToken: "token-" + id, Identity: domain.Identity{ID: id, Email: email}},
		Role:    domain.RoleDoctor,
	}
}
