package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-web/internal/api/metrics"
	"github.com/clinicdesk/clinic-web/internal/api/middleware"
	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
	"github.com/clinicdesk/clinic-web/internal/core/view"
)

const genericFailure = "حدث خطأ، الرجاء المحاولة مرة أخرى"

type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionStore
	cookies  middleware.SessionOptions
	log      zerolog.Logger
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionStore, cookies middleware.SessionOptions, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookies: cookies, log: log}
}

// Show renders the sign-in page. ?tab=signup selects registration.
func (h *AuthHandler) Show(c echo.Context) error {
	data := authData{Tab: tab(c.QueryParam("tab"))}
	return render(c, http.StatusOK, "auth", newPage(c, "تسجيل الدخول", "", data))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// A successful sign-in is bound to a fresh sid, never to the one the
	// anonymous browser arrived with.
	sid := uuid.NewString()
	err := h.auth.Login(c.Request().Context(), sid, form.toInput())
	if err != nil {
		metrics.FormsSubmittedTotal.WithLabelValues("login", outcome(err)).Inc()
		data := authData{Tab: "login", Email: form.Email}
		n := failure(err, "فشل تسجيل الدخول")
		return render(c, http.StatusOK, "auth", newPage(c, "تسجيل الدخول", "", data, n))
	}

	h.rotate(c, sid)
	metrics.FormsSubmittedTotal.WithLabelValues("login", "ok").Inc()
	setFlash(c, view.Notice{Title: "تم تسجيل الدخول بنجاح", Description: "مرحباً بك"})
	return redirect(c, "/")
}

func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sid := uuid.NewString()
	err := h.auth.Register(c.Request().Context(), sid, form.toInput())
	if err != nil {
		metrics.FormsSubmittedTotal.WithLabelValues("register", outcome(err)).Inc()
		data := authData{Tab: "signup", Email: form.Email, FullName: form.FullName, Phone: form.Phone, Role: form.Role}
		n := failure(err, "فشل إنشاء الحساب")
		return render(c, http.StatusOK, "auth", newPage(c, "إنشاء حساب", "", data, n))
	}

	h.rotate(c, sid)
	metrics.FormsSubmittedTotal.WithLabelValues("register", "ok").Inc()
	setFlash(c, view.Notice{Title: "تم إنشاء الحساب بنجاح", Description: "جاري تسجيل الدخول..."})
	return redirect(c, "/")
}

// Logout ends the session. On failure the user stays on the page they came from.
func (h *AuthHandler) Logout(c echo.Context) error {
	state := middleware.State(c)
	if err := h.auth.Logout(c.Request().Context(), middleware.SID(c), state.Session); err != nil {
		h.log.Warn().Err(err).Msg("logout failed")
		metrics.FormsSubmittedTotal.WithLabelValues("logout", "error").Inc()
		setFlash(c, view.Notice{Title: "خطأ", Description: "فشل تسجيل الخروج", Destructive: true})
		return redirect(c, backTo(c, "/"))
	}

	metrics.FormsSubmittedTotal.WithLabelValues("logout", "ok").Inc()
	setFlash(c, view.Notice{Title: "تم تسجيل الخروج", Description: "إلى اللقاء"})
	return redirect(c, "/auth")
}

// rotate moves the browser onto sid and drops the record of the sid it
// replaces.
func (h *AuthHandler) rotate(c echo.Context, sid string) {
	prev := middleware.SID(c)
	middleware.Rotate(c, sid, h.cookies)
	if prev == "" || prev == sid {
		return
	}
	if err := h.sessions.Forget(c.Request().Context(), prev); err != nil {
		h.log.Warn().Err(err).Msg("forget previous session failed")
	}
}

func tab(s string) string {
	if s == "signup" {
		return "signup"
	}
	return "login"
}

// failure turns a form error into a destructive notice. Validation errors use
// the generic "error" title; everything else uses title.
func failure(err error, title string) view.Notice {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		title = "خطأ"
	}
	return view.Notice{Title: title, Description: domain.Message(err, genericFailure), Destructive: true}
}

func outcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicatePatient):
		return "duplicate"
	default:
		return "error"
	}
}
