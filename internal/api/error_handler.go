package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-web/internal/api/handler"
	"github.com/clinicdesk/clinic-web/internal/core/domain"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:       "طلب غير صالح",
	http.StatusForbidden:        domain.Message(domain.ErrForbidden, ""),
	http.StatusNotFound:         "الصفحة غير موجودة",
	http.StatusMethodNotAllowed: "طلب غير صالح",
}

const internalMessage = "حدث خطأ غير متوقع"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Sends unauthenticated visitors to the sign-in page.
//   - Logs unexpected errors internally without leaking details to the page.
//   - Renders the HTML error page.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrUnauthenticated) {
			_ = c.Redirect(http.StatusSeeOther, "/auth")
			return
		}

		code, msg := resolveError(err, log, c)
		if rerr := handler.RenderError(c, code, msg); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, CSRF rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := statusMessages[he.Code]; ok {
			return he.Code, msg
		}
		if he.Code < http.StatusInternalServerError {
			return he.Code, http.StatusText(he.Code)
		}
	}

	switch {
	case errors.Is(err, domain.ErrPatientNotFound):
		return http.StatusNotFound, domain.Message(err, "")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.Message(err, "")
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, internalMessage
}
