package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-web/internal/core/ports"
)

// SessionCookie holds the opaque browser session id.
const SessionCookie = "clinic_session"

const (
	ctxSID     = "sid"
	ctxSession = "session"
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	Secure bool
	MaxAge time.Duration
}

// Session resolves the browser session on every request and stores it in the
// context. A browser without a session cookie gets a fresh sid, so a later
// sign-in has something to bind to. A store failure degrades to the
// anonymous state.
func Session(store ports.SessionStore, opts SessionOptions, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(SessionCookie); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					sid = ck.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
				setSIDCookie(c, sid, opts)
			}

			state, err := store.Current(c.Request().Context(), sid)
			if err != nil {
				log.Warn().Err(err).Str("request_id", requestID(c)).Msg("session lookup failed")
				state = ports.SessionState{}
			}

			c.Set(ctxSID, sid)
			c.Set(ctxSession, state)
			return next(c)
		}
	}
}

// Rotate moves the browser to a new sid: the cookie is reissued and SID
// reports the new value for the rest of the request.
func Rotate(c echo.Context, sid string, opts SessionOptions) {
	setSIDCookie(c, sid, opts)
	c.Set(ctxSID, sid)
}

func setSIDCookie(c echo.Context, sid string, opts SessionOptions) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SID returns the browser session id set by Session.
func SID(c echo.Context) string {
	sid, _ := c.Get(ctxSID).(string)
	return sid
}

// State returns the session state set by Session, or the anonymous state.
func State(c echo.Context) ports.SessionState {
	state, _ := c.Get(ctxSession).(ports.SessionState)
	return state
}

// RequireSession sends anonymous visitors to the sign-in page.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if State(c).Identity() == nil {
				return c.Redirect(http.StatusSeeOther, "/auth")
			}
			return next(c)
		}
	}
}

// RedirectAuthenticated sends signed-in visitors away from the sign-in page.
func RedirectAuthenticated(to string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if State(c).Identity() != nil {
				return c.Redirect(http.StatusSeeOther, to)
			}
			return next(c)
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
