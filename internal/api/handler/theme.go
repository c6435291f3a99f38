package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const themeCookie = "theme"

func currentTheme(c echo.Context) string {
	if ck, err := c.Cookie(themeCookie); err == nil && ck.Value == "dark" {
		return "dark"
	}
	return "light"
}

// ThemeHandler stores the light/dark display preference.
type ThemeHandler struct {
	secure bool
}

func NewThemeHandler(secure bool) *ThemeHandler {
	return &ThemeHandler{secure: secure}
}

// Toggle handles POST /theme and sends the browser back where it came from.
func (h *ThemeHandler) Toggle(c echo.Context) error {
	theme := "light"
	if c.FormValue("theme") == "dark" {
		theme = "dark"
	}
	c.SetCookie(&http.Cookie{
		Name:     themeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return redirect(c, backTo(c, "/"))
}

// backTo returns the local path of the Referer, or fallback.
func backTo(c echo.Context, fallback string) string {
	u, err := url.Parse(c.Request().Referer())
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return fallback
	}
	if u.Host != "" && u.Host != c.Request().Host {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
