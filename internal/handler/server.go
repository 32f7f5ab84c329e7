// Package handler implements the HTTP handlers for the Priority-To-Do app.
// All handlers are methods on Server. Methods are split into files by page
// (home.go, list.go, health.go) but share the same Server struct so they can
// access its dependencies.
package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/priority-todo/internal/domain"
	"github.com/pkordes/priority-todo/internal/view"
)

// ListServicer defines the business operations the list handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type ListServicer interface {
	NewList(ctx context.Context, text string) (domain.List, error)
	AddItem(ctx context.Context, listID uuid.UUID, text string) (domain.Item, error)
	GetList(ctx context.Context, listID uuid.UUID) (domain.List, []domain.Item, error)
}

// Server holds the dependencies shared by every handler. Handlers keep no
// state between requests.
type Server struct {
	lists ListServicer
	views view.Renderer
	log   *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(lists ListServicer, views view.Renderer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{lists: lists, views: views, log: log}
}

// NewHealthHandler returns a Server for health-check-only use. It has no
// list service, but unknown paths still render the 404 page.
func NewHealthHandler() *Server {
	return NewServer(nil, view.Must(), nil)
}

// Routes returns the router for every endpoint. Cross-cutting middleware
// (request IDs, logging, recovery, CORS, body limits) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	// The home page renders for any method and never writes.
	r.HandleFunc("/", s.HomePage)

	r.Post("/lists/new", s.NewList)
	r.Get("/lists/{id}", s.RedirectToList)
	r.Get("/lists/{id}/", s.ViewList)
	r.Post("/lists/{id}/add_item", s.AddItem)

	r.NotFound(s.notFound)
	return r
}

// render executes fn into a buffer first so a template failure can still be
// reported as a clean 500 instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// notFound renders the 404 page.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, s.views.NotFound)
}

// internalError logs err and responds 500 without leaking details.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
