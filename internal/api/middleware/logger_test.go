package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestLogger_LogsStatusFromErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		handler    echo.HandlerFunc
		wantStatus int
		wantLevel  string
	}{
		{"error rendered as 500", func(echo.Context) error { return errors.New("boom") }, http.StatusInternalServerError, "error"},
		{"ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, http.StatusNoContent, "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()
			e.HTTPErrorHandler = func(err error, c echo.Context) {
				if c.Response().Committed {
					return
				}
				_ = c.NoContent(http.StatusInternalServerError)
			}
			e.Use(Logger(zerolog.New(&buf)))
			e.GET("/x", tt.handler)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

			var line map[string]any
			if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
				t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
			}
			if status, _ := line["status"].(float64); int(status) != tt.wantStatus {
				t.Fatalf("expected logged status %d, got %v", tt.wantStatus, line["status"])
			}
			if line["level"] != tt.wantLevel {
				t.Fatalf("expected level %q, got %v", tt.wantLevel, line["level"])
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected response %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
