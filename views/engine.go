// Package views renders the HTML pages. Templates are embedded and parsed
// per request so the template helpers are bound to the request context.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/blogem/object-log/models"
	"github.com/blogem/object-log/templatetags"
)

//go:embed templates
var templatesFS embed.FS

const layoutTemplate = "layout.html"

// partials are parsed into every page
var partials = []string{
	templatetags.UserActionsTemplate,
	"object_log/log_items.html",
}

// Engine renders pages with the template helper library
type Engine struct {
	lib   *templatetags.Library
	files fs.FS
}

// NewEngine creates an engine backed by the embedded templates
func NewEngine(lib *templatetags.Library) (*Engine, error) {
	files, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded templates: %w", err)
	}
	return &Engine{lib: lib, files: files}, nil
}

// Render executes page inside the layout and writes it with status
func (e *Engine) Render(w http.ResponseWriter, r *http.Request, status int, page string, data models.PageData) error {
	tmpl, err := e.parse(r.Context(), page)
	if err != nil {
		return err
	}

	// Render into a buffer so a failing helper does not leave a half-written page
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}

// BindItems lets items render their action templates in ctx
func (e *Engine) BindItems(ctx context.Context, items []*models.LogItem) {
	renderer := e.lib.Renderer(ctx)
	for _, item := range items {
		item.BindRenderer(renderer)
	}
}

func (e *Engine) parse(ctx context.Context, page string) (*template.Template, error) {
	// The root stays unnamed: parsing a file under the root's own name
	// would replace it with a template that has no functions.
	tmpl := template.New("").Funcs(e.lib.FuncMap(ctx))

	names := append([]string{layoutTemplate, page}, partials...)
	for _, name := range names {
		src, err := fs.ReadFile(e.files, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		if _, err := templatetags.Parse(tmpl, name, string(src)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}
	return tmpl, nil
}
