package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Renderer parses every template under the views directory once at startup
// and renders by name. A missing template is a boot failure, not a request
// failure.
type Renderer struct {
	templates   *template.Template
	development bool
}

// Required templates: boot refuses to start without these, so a broken
// deployment fails fast instead of 500ing on the first error.
var requiredTemplates = []string{"error", "login", "register"}

func New(viewsDir string, development bool) (*Renderer, error) {
	tmpl, err := template.ParseGlob(filepath.Join(viewsDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates in %s: %w", viewsDir, err)
	}

	for _, name := range requiredTemplates {
		if tmpl.Lookup(name+".html") == nil {
			return nil, fmt.Errorf("required template %s.html not found in %s", name, viewsDir)
		}
	}

	return &Renderer{templates: tmpl, development: development}, nil
}

// Render writes the named template. The template executes into a buffer first
// so a mid-render failure never leaves a half-written page behind a 200.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name+".html", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("template render failed")
		r.renderErrorPage(w, http.StatusInternalServerError, "Something went wrong", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// ErrorData is what the error template receives. Detail is only populated
// outside production.
type ErrorData struct {
	Status  int
	Message string
	Detail  string
}

// RenderError renders the shared error page. The underlying error is shown
// only in development; production pages carry the message alone.
func (r *Renderer) RenderError(w http.ResponseWriter, status int, message string, cause error) {
	r.renderErrorPage(w, status, message, cause)
}

func (r *Renderer) renderErrorPage(w http.ResponseWriter, status int, message string, cause error) {
	data := ErrorData{Status: status, Message: message}
	if r.development && cause != nil {
		data.Detail = cause.Error()
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "error.html", data); err != nil {
		// Last resort if the error page itself fails.
		log.Error().Err(err).Msg("error template render failed")
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
