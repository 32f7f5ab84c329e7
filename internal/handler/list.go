package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/priority-todo/internal/domain"
	"github.com/pkordes/priority-todo/internal/view"
)

// itemTextField is the form field carrying the text of a new item.
const itemTextField = "item_text"

// NewList handles POST /lists/new.
// It creates a list with one item and redirects to the list's page.
func (s *Server) NewList(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(formError(err)), formError(err))
		return
	}

	created, err := s.lists.NewList(r.Context(), r.PostForm.Get(itemTextField))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			s.render(w, r, http.StatusBadRequest, func(out io.Writer) error {
				return s.views.Home(out, view.HomePage{Error: unwrapMessage(err)})
			})
			return
		}
		s.internalError(w, r, err)
		return
	}

	http.Redirect(w, r, created.URL(), http.StatusFound)
}

// ViewList handles GET /lists/{id}/.
// Unknown and malformed ids both render the 404 page.
func (s *Server) ViewList(w http.ResponseWriter, r *http.Request) {
	id, err := listIDParam(r)
	if err != nil {
		s.notFound(w, r)
		return
	}

	l, items, err := s.lists.GetList(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notFound(w, r)
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, func(out io.Writer) error {
		return s.views.List(out, view.ListPage{List: l, Items: items})
	})
}

// RedirectToList handles GET /lists/{id} by sending the visitor to the
// canonical URL with the trailing slash.
func (s *Server) RedirectToList(w http.ResponseWriter, r *http.Request) {
	id, err := listIDParam(r)
	if err != nil {
		s.notFound(w, r)
		return
	}
	target := domain.ListURL(id)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

// AddItem handles POST /lists/{id}/add_item.
// It appends an item to the list and redirects back to the list's page.
func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := listIDParam(r)
	if err != nil {
		s.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(formError(err)), formError(err))
		return
	}

	_, err = s.lists.AddItem(r.Context(), id, r.PostForm.Get(itemTextField))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.notFound(w, r)
		case errors.Is(err, domain.ErrValidation):
			s.rerenderList(w, r, id, unwrapMessage(err))
		default:
			s.internalError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, domain.ListURL(id), http.StatusFound)
}

// rerenderList shows the list page again with a validation message and a
// 400 status, keeping the existing items visible.
func (s *Server) rerenderList(w http.ResponseWriter, r *http.Request, id openapi_types.UUID, message string) {
	l, items, err := s.lists.GetList(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.notFound(w, r)
			return
		}
		s.internalError(w, r, err)
		return
	}
	s.render(w, r, http.StatusBadRequest, func(out io.Writer) error {
		return s.views.List(out, view.ListPage{List: l, Items: items, Error: message})
	})
}

// listIDParam binds the {id} path parameter the same way oapi-codegen's
// generated chi wrappers bind UUID path parameters.
func listIDParam(r *http.Request) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	return id, err
}
