// Package view renders the HTML pages of the Priority-To-Do app.
// Handlers pass explicit page data to a Renderer; templates are embedded
// at compile time and parsed once at startup.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/pkordes/priority-todo/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// HomePage is the data for the home page.
type HomePage struct {
	// Error is a validation message shown under the input, if any.
	Error string
}

// ListPage is the data for a single list's page.
type ListPage struct {
	List  domain.List
	Items []domain.Item
	Error string
}

// notFoundPage satisfies the base template's .Error lookup.
type notFoundPage struct {
	Error string
}

// Renderer writes complete HTML documents.
type Renderer interface {
	Home(w io.Writer, page HomePage) error
	List(w io.Writer, page ListPage) error
	NotFound(w io.Writer) error
}

// Templates is the html/template implementation of Renderer.
type Templates struct {
	home     *template.Template
	list     *template.Template
	notFound *template.Template
}

// New parses the embedded templates. Each page is parsed into its own
// template set so page-level block overrides do not collide.
func New() (*Templates, error) {
	home, err := parsePage("home.html")
	if err != nil {
		return nil, err
	}
	list, err := parsePage("list.html")
	if err != nil {
		return nil, err
	}
	notFound, err := parsePage("not_found.html")
	if err != nil {
		return nil, err
	}
	return &Templates{home: home, list: list, notFound: notFound}, nil
}

// Must is like New but panics on error. Intended for tests and main.
func Must() *Templates {
	t, err := New()
	if err != nil {
		panic(err)
	}
	return t
}

func parsePage(name string) (*template.Template, error) {
	t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("view: parse %s: %w", name, err)
	}
	return t, nil
}

// Home renders the home page.
func (t *Templates) Home(w io.Writer, page HomePage) error {
	return t.home.ExecuteTemplate(w, "base", page)
}

// List renders a list's page with its items in the given order.
func (t *Templates) List(w io.Writer, page ListPage) error {
	return t.list.ExecuteTemplate(w, "base", page)
}

// NotFound renders the page shown for unknown lists.
func (t *Templates) NotFound(w io.Writer) error {
	return t.notFound.ExecuteTemplate(w, "base", notFoundPage{})
}
