package nlq

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the query API. mws wrap only the endpoints that call
// the model.
func SetupRoutes(svc *Service, mws ...func(http.Handler) http.Handler) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(mws...)
		r.Post("/", h.Query)
		r.Post("/plan", h.Plan)
	})

	return r
}
