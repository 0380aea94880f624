package web

import (
	"html"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// Templates wraps the parsed layout/partial set. Pages are parsed per
// render off a clone so page-level defines never collide.
type Templates struct {
	baseDir string
	base    *template.Template
}

func MustParseTemplates(baseDir string, loc *time.Location) *Templates {
	funcs := template.FuncMap{
		"year":        func() string { return time.Now().Format("2006") },
		"fmtDate":     func(t time.Time) string { return t.In(loc).Format("Mon, 02 Jan 2006") },
		"fmtISODate":  func(t time.Time) string { return t.In(loc).Format("2006-01-02") },
		"fmtTime":     func(t time.Time) string { return t.In(loc).Format("3:04 PM") },
		"fmtDateTime": func(t time.Time) string { return t.In(loc).Format("Mon, 02 Jan 2006 3:04 PM") },
		"fmtLong":     func(t time.Time) string { return t.In(loc).Format("Monday, January 2, 2006") },
		"nl2br": func(s string) template.HTML {
			esc := html.EscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
			return template.HTML(strings.ReplaceAll(esc, "\n", "<br>"))
		},
	}

	p := template.New("").Funcs(funcs)
	p = template.Must(p.ParseGlob(filepath.Join(baseDir, "layouts", "*.tmpl")))
	p = template.Must(p.ParseGlob(filepath.Join(baseDir, "partials", "*.tmpl")))
	return &Templates{baseDir: baseDir, base: p}
}

// Render satisfies handlers.Renderer.
func (t *Templates) Render(w http.ResponseWriter, name string, data map[string]any) error {
	view, err := t.base.Clone()
	if err != nil {
		return err
	}
	if _, err := view.ParseFiles(filepath.Join(t.baseDir, "pages", filepath.FromSlash(name))); err != nil {
		return err
	}
	return view.ExecuteTemplate(w, name, data)
}
