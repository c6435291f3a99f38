package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinic-web/internal/api/metrics"
	"github.com/clinicdesk/clinic-web/internal/api/middleware"
	"github.com/clinicdesk/clinic-web/internal/core/view"
	"github.com/clinicdesk/clinic-web/internal/web"
)

// CSRFContextKey is where the CSRF middleware stores the form token.
const CSRFContextKey = "csrf"

// newPage assembles the frame every template expects: theme, CSRF token,
// the signed-in shell and any pending flash notices.
func newPage(c echo.Context, title, active string, data any, notices ...view.Notice) web.Page {
	p := web.Page{
		Title:   title,
		Theme:   currentTheme(c),
		Data:    data,
		Notices: append(popFlash(c), notices...),
	}
	p.CSRF, _ = c.Get(CSRFContextKey).(string)

	state := middleware.State(c)
	if identity := state.Identity(); identity != nil {
		p.Shell = &web.Shell{
			Email:     identity.Email,
			Initial:   identity.Initial(),
			RoleLabel: state.Role.Label(),
			Active:    active,
			Nav:       web.Nav,
		}
	}
	return p
}

func render(c echo.Context, status int, name string, p web.Page) error {
	return c.Render(status, name, p)
}

// loadView runs one page fetch for the signed-in identity and counts the
// outcome.
func loadView[T any](c echo.Context, name, failText string, fetch func(context.Context) (T, error)) view.Result[T] {
	identity := middleware.State(c).Identity()
	res := view.Load(c.Request().Context(), name, identity, failText, fetch)
	metrics.ViewsTotal.WithLabelValues(name, string(res.State)).Inc()
	return res
}

func notices(n *view.Notice) []view.Notice {
	if n == nil {
		return nil
	}
	return []view.Notice{*n}
}

func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

type errorData struct {
	Code    int
	Message string
}

// RenderError renders the error page with the given status.
func RenderError(c echo.Context, code int, message string) error {
	if c.Request().Method == http.MethodHead {
		return c.NoContent(code)
	}
	data := errorData{Code: code, Message: message}
	return render(c, code, "error", newPage(c, "خطأ", "", data))
}
