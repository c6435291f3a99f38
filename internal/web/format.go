package web

import (
	"fmt"
	"time"
)

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// Formatter renders timestamps in the clinic's zone with Arabic month names.
type Formatter struct {
	loc *time.Location
}

func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return Formatter{loc: loc}
}

// Date renders "dd MMM yyyy", or "-" for the zero time.
func (f Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	t = t.In(f.loc)
	return fmt.Sprintf("%02d %s %d", t.Day(), arabicMonths[t.Month()-1], t.Year())
}

// DateTime renders "dd MMM yyyy - HH:mm", or "-" for the zero time.
func (f Formatter) DateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	local := t.In(f.loc)
	return fmt.Sprintf("%s - %02d:%02d", f.Date(local), local.Hour(), local.Minute())
}

// BirthDate renders a yyyy-mm-dd column value as "dd MMM yyyy".
func (f Formatter) BirthDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return dash(s)
	}
	return fmt.Sprintf("%02d %s %d", t.Day(), arabicMonths[t.Month()-1], t.Year())
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func minutes(n int) string {
	return fmt.Sprintf("%d دقيقة", n)
}
