package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-web/internal/api/middleware"
	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
	"github.com/clinicdesk/clinic-web/internal/core/view"
	"github.com/clinicdesk/clinic-web/internal/web"
)

const testSID = "0b5d3c1e-8f2a-4c61-9d7e-3a4b5c6d7e8f"

// --- stubs ---

type stubStore struct {
	state ports.SessionState
}

func (s stubStore) Current(context.Context, string) (ports.SessionState, error) {
	return s.state, nil
}

func (s stubStore) Forget(context.Context, string) error { return nil }

// recordingStore remembers which sids were forgotten.
type recordingStore struct {
	forgotten []string
	err       error
}

func (s *recordingStore) Current(context.Context, string) (ports.SessionState, error) {
	return ports.SessionState{}, nil
}

func (s *recordingStore) Forget(_ context.Context, sid string) error {
	s.forgotten = append(s.forgotten, sid)
	return s.err
}

func newAuthHandler(svc ports.AuthService, store ports.SessionStore) *AuthHandler {
	if store == nil {
		store = &recordingStore{}
	}
	return NewAuthHandler(svc, store, middleware.SessionOptions{MaxAge: time.Hour}, zerolog.Nop())
}

func sidCookie(rec *httptest.ResponseRecorder) string {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			return ck.Value
		}
	}
	return ""
}

type stubAuth struct {
	registerFn func(ctx context.Context, sid string, in ports.RegisterInput) error
	loginFn    func(ctx context.Context, sid string, in ports.LoginInput) error
	logoutFn   func(ctx context.Context, sid string, s *domain.Session) error
}

func (s *stubAuth) Register(ctx context.Context, sid string, in ports.RegisterInput) error {
	return s.registerFn(ctx, sid, in)
}

func (s *stubAuth) Login(ctx context.Context, sid string, in ports.LoginInput) error {
	return s.loginFn(ctx, sid, in)
}

func (s *stubAuth) Logout(ctx context.Context, sid string, session *domain.Session) error {
	return s.logoutFn(ctx, sid, session)
}

type stubPatients struct {
	listFn   func(ctx context.Context, state ports.SessionState) ([]domain.Patient, error)
	getFn    func(ctx context.Context, state ports.SessionState, id string) (*ports.PatientDetail, error)
	createFn func(ctx context.Context, state ports.SessionState, in ports.NewPatientInput) (*domain.Patient, error)
}

func (s *stubPatients) List(ctx context.Context, state ports.SessionState) ([]domain.Patient, error) {
	return s.listFn(ctx, state)
}

func (s *stubPatients) Get(ctx context.Context, state ports.SessionState, id string) (*ports.PatientDetail, error) {
	return s.getFn(ctx, state, id)
}

func (s *stubPatients) Create(ctx context.Context, state ports.SessionState, in ports.NewPatientInput) (*domain.Patient, error) {
	return s.createFn(ctx, state, in)
}

type stubDashboard struct {
	statsFn func(ctx context.Context, state ports.SessionState) (*ports.DashboardStats, error)
}

func (s *stubDashboard) Stats(ctx context.Context, state ports.SessionState) (*ports.DashboardStats, error) {
	return s.statsFn(ctx, state)
}

// --- helpers ---

func doctorState() ports.SessionState {
	return ports.SessionState{
		Session: &domain.Session{
			AccessToken: "access",
			ExpiresAt:   time.Now().Add(time.Hour),
			Identity:    domain.Identity{ID: "user-1", Email: "dr@clinic.com"},
		},
		Role: domain.RoleDoctor,
	}
}

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	r, err := web.NewRenderer(time.UTC)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	return e
}

func formRequest(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: testSID})
	return req
}

// serve runs h behind the session middleware with state resolved for testSID.
func serve(t *testing.T, e *echo.Echo, req *http.Request, state ports.SessionState, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	mw := middleware.Session(stubStore{state: state}, middleware.SessionOptions{MaxAge: time.Hour}, zerolog.Nop())
	if err := mw(h)(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func flashFrom(t *testing.T, rec *httptest.ResponseRecorder) []view.Notice {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name != flashCookie || ck.Value == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
		if err != nil {
			t.Fatalf("decode flash: %v", err)
		}
		var ns []view.Notice
		if err := json.Unmarshal(raw, &ns); err != nil {
			t.Fatalf("unmarshal flash: %v", err)
		}
		return ns
	}
	return nil
}
