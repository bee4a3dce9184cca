package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/models"
)

//go:embed templates static
var content embed.FS

// pageNames lists the renderable pages; each pairs with layout.html.
var pageNames = []string{
	"index.html",
	"signup.html",
	"login.html",
	"tasks.html",
	"task_form.html",
}

// Page carries everything the layout and page templates can show.
type Page struct {
	Title     string
	Principal *models.Principal

	// Error is a page-level inline message (e.g. bad credentials).
	Error string
	// Fields maps form field names to validation messages.
	Fields map[string]string
	// Form holds submitted or prefilled field values for re-rendering.
	Form map[string]string
	// Action is the form target for the shared task form.
	Action string

	Tasks []models.Task
}

// Renderer renders the embedded server-side templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded template set.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(content, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page with the given status code.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data Page) {
	t, ok := r.pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("Unknown template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render template")
	}
}

// Static returns the handler serving the embedded /static assets.
func (r *Renderer) Static() http.Handler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// The static directory is embedded at compile time.
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
