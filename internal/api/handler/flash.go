package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinic-web/internal/core/view"
)

const flashCookie = "flash"

// setFlash queues notices for the next rendered page, typically across a
// redirect.
func setFlash(c echo.Context, ns ...view.Notice) {
	raw, err := json.Marshal(ns)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns and clears the queued notices.
func popFlash(c echo.Context) []view.Notice {
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	c.SetCookie(&http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1, HttpOnly: true})

	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var ns []view.Notice
	if err := json.Unmarshal(raw, &ns); err != nil {
		return nil
	}
	return ns
}
