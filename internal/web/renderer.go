// Package web holds the HTML templates and the echo renderer that serves them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

const layout = "templates/layout.html"

// Renderer implements echo.Renderer. Each page is parsed together with the
// layout once at start-up and rendered by its base name, e.g. "patients".
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer parses every page template. Dates render in loc.
func NewRenderer(loc *time.Location) (*Renderer, error) {
	f := NewFormatter(loc)
	funcs := template.FuncMap{
		"date":      f.Date,
		"datetime":  f.DateTime,
		"birthdate": f.BirthDate,
		"dash":      dash,
		"minutes":   minutes,
	}

	files, err := fs.Glob(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: list templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if file == layout {
			continue
		}
		tpl, err := template.New(path.Base(layout)).Funcs(funcs).ParseFS(templates, layout, file)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = tpl
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("web: unknown template %q", name)
	}
	return tpl.ExecuteTemplate(w, path.Base(layout), data)
}

// Static returns the embedded asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
