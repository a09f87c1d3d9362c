package template

import (
	"bytes"
	"io/fs"
	"net/http"
	"time"

	stdtemplate "html/template"

	humanize "github.com/dustin/go-humanize"
)

type Template struct {
	templates *stdtemplate.Template
}

func NewTemplate(views fs.FS) (*Template, error) {
	funcMap := stdtemplate.FuncMap{
		"humanbytes": func(n int64) string {
			if n < 0 {
				return "0 B"
			}
			return humanize.Bytes(uint64(n))
		},
		"humantime": humanize.Time,
		"rfc3339": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339)
		},
	}
	templates, err := stdtemplate.New("stdtmpl").Funcs(funcMap).ParseFS(views, "static/views/*.html")
	if err != nil {
		return nil, err
	}
	return &Template{templates: templates}, nil
}

// Render executes the view into a buffer first so that a failing template
// never leaves a half written 200 behind.
func (t *Template) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := t.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
