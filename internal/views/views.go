package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/aishanaaz19/assignment-growthx/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const partialsPattern = "templates/_*.html"

// RegisterForm echoes a rejected registration back into the form.
type RegisterForm struct {
	Username string
	FullName string
	Email    string
}

// Page is the data bag every template receives.
type Page struct {
	Title    string
	Error    string
	Username string
	Form     RegisterForm
	Identity *types.Identity

	Admins             []string
	AttachmentsEnabled bool

	Admin       string
	Assignments []types.Assignment
	Assignment  types.Assignment
	Reported    types.AssignmentStatus
}

// Renderer executes named page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page in the embedded template directory. Each page is
// parsed together with the shared partials (files starting with "_").
func New() (*Renderer, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".html")
		if strings.HasPrefix(name, "_") {
			continue
		}
		tmpl, err := template.New(path.Base(page)).ParseFS(templateFS, page, partialsPattern)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes page with data and the given status code. The page is fully
// executed before anything is written, so a template error leaves the
// response untouched.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
