package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutesForTest exposes the routed handler for black-box tests.
func (h *Handler) MountRoutesForTest() http.Handler {
	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		h.MountRoutes(r)
	})
	return r
}
