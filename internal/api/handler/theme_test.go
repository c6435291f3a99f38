package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/clinicdesk/clinic-web/internal/core/ports"
	"github.com/clinicdesk/clinic-web/internal/core/view"
)

func TestThemeHandler_Toggle(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		referer   string
		wantTheme string
		wantLoc   string
	}{
		{"dark back to page", "dark", "http://example.com/patients?q=a", "dark", "/patients?q=a"},
		{"unknown is light", "sepia", "", "light", "/"},
		{"foreign referer", "dark", "http://evil.test/phish", "dark", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEcho(t)
			req := formRequest(http.MethodPost, "/theme", url.Values{"theme": {tt.value}})
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			rec := httptest.NewRecorder()
			if err := NewThemeHandler(false).Toggle(e.NewContext(req, rec)); err != nil {
				t.Fatalf("Toggle: %v", err)
			}

			if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
				t.Fatalf("expected redirect %q, got %q", tt.wantLoc, loc)
			}
			var got string
			for _, ck := range rec.Result().Cookies() {
				if ck.Name == themeCookie {
					got = ck.Value
				}
			}
			if got != tt.wantTheme {
				t.Fatalf("expected theme %q, got %q", tt.wantTheme, got)
			}
		})
	}
}

func TestLayout_AppliesDarkTheme(t *testing.T) {
	req := formRequest(http.MethodGet, "/settings", nil)
	req.AddCookie(&http.Cookie{Name: themeCookie, Value: "dark"})

	rec := serve(t, newEcho(t), req, doctorState(), Settings)

	body := rec.Body.String()
	if !strings.Contains(body, `class="dark"`) {
		t.Fatal("expected the dark class on the document")
	}
	if !strings.Contains(body, "معلومات العيادة") {
		t.Fatal("expected the settings cards")
	}
}

func TestFlash_ShownOnceAfterRedirect(t *testing.T) {
	e := newEcho(t)

	setRec := httptest.NewRecorder()
	setFlash(e.NewContext(formRequest(http.MethodPost, "/x", nil), setRec), view.Notice{Title: "نجح", Description: "تم إضافة المريض بنجاح"})

	req := formRequest(http.MethodGet, "/settings", nil)
	for _, ck := range setRec.Result().Cookies() {
		req.AddCookie(ck)
	}
	rec := serve(t, e, req, doctorState(), Settings)

	if !strings.Contains(rec.Body.String(), "تم إضافة المريض بنجاح") {
		t.Fatal("expected the flash notice on the next page")
	}
	cleared := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == flashCookie && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected the flash cookie to be cleared")
	}
}

func TestSettings_AnonymousHasNoShell(t *testing.T) {
	rec := serve(t, newEcho(t), formRequest(http.MethodGet, "/settings", nil), ports.SessionState{}, Settings)

	if strings.Contains(rec.Body.String(), "تسجيل الخروج") {
		t.Fatal("anonymous pages must not render the navigation shell")
	}
}
