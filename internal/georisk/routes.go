package georisk

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", ListAreasOfInterest)
	r.Get("/{id}", GetAreaOfInterest)

	return r
}
