package handler

import (
	"io"
	"net/http"

	"github.com/pkordes/priority-todo/internal/view"
)

// HomePage handles / for every method. It renders the new-list form and has
// no side effects, even for POST.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, func(out io.Writer) error {
		return s.views.Home(out, view.HomePage{})
	})
}
