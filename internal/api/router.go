package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-web/internal/api/handler"
	"github.com/clinicdesk/clinic-web/internal/api/metrics"
	"github.com/clinicdesk/clinic-web/internal/api/middleware"
	"github.com/clinicdesk/clinic-web/internal/core/domain"
	"github.com/clinicdesk/clinic-web/internal/core/ports"
	"github.com/clinicdesk/clinic-web/internal/web"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Log          zerolog.Logger
	Renderer     echo.Renderer
	Sessions     ports.SessionStore
	Auth         ports.AuthService
	Patients     ports.PatientService
	Visits       ports.VisitService
	Appointments ports.AppointmentService
	Dashboard    ports.DashboardService
	Checks       map[string]handler.Check
	Cookies      middleware.SessionOptions
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = d.Renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(middleware.Recovery(d.Log))
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Logger(d.Log))
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.Secure())

	// --- Ops routes (no session, no CSRF) ---
	health := handler.NewHealthHandler(d.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.StaticFS("/static", web.Static())

	// --- Pages ---
	app := e.Group("",
		echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
			TokenLookup:    "form:_csrf",
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   d.Cookies.Secure,
			CookieSameSite: http.SameSiteLaxMode,
			ContextKey:     handler.CSRFContextKey,
		}),
		middleware.Session(d.Sessions, d.Cookies, d.Log),
	)

	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions, d.Cookies, d.Log)
	app.GET("/auth", authHandler.Show, middleware.RedirectAuthenticated("/"))
	app.POST("/auth/login", authHandler.Login)
	app.POST("/auth/register", authHandler.Register)
	app.POST("/auth/logout", authHandler.Logout, middleware.RequireSession())
	app.POST("/theme", handler.NewThemeHandler(d.Cookies.Secure).Toggle)

	signedIn := app.Group("", middleware.RequireSession())
	intake := middleware.RBAC(domain.RoleDoctor, domain.RoleSecretary)

	signedIn.GET("/", handler.NewDashboardHandler(d.Dashboard).Show)

	patients := handler.NewPatientHandler(d.Patients, d.Log)
	signedIn.GET("/patients", patients.List)
	signedIn.GET("/patients/new", patients.New, intake)
	signedIn.POST("/patients", patients.Create, intake)
	signedIn.GET("/patients/:id", patients.Show)

	signedIn.GET("/visits", handler.NewVisitHandler(d.Visits).List)
	signedIn.GET("/appointments", handler.NewAppointmentHandler(d.Appointments).List)
	signedIn.GET("/settings", handler.Settings)

	return e
}
