package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/chiedozieu/website-builder/internal/api/handlers"
	mw "github.com/chiedozieu/website-builder/internal/api/middleware"
)

type Dependencies struct {
	HMACSecret       []byte
	AuthHandler      *handlers.AuthHandler
	ProjectsHandler  *handlers.ProjectsHandler
	RevisionsHandler *handlers.RevisionsHandler
	CreditsHandler   *handlers.CreditsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/docs/doc.json"),
	))

	r.Route("/api/v1", func(api chi.Router) {
		// Auth routes (public)
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Post("/login", dep.AuthHandler.Login)
			ar.Post("/logout", dep.AuthHandler.Logout)
		})

		// Public gallery
		api.Get("/projects/published", dep.ProjectsHandler.Published)
		api.Get("/projects/{projectID}/public", dep.ProjectsHandler.PublicCode)

		// Protected routes
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.HMACSecret))

			protected.Get("/credits", dep.CreditsHandler.Balance)

			// Flat patterns so the public /projects/published and
			// /projects/{projectID}/public routes can share the subtree.
			protected.Get("/projects", dep.ProjectsHandler.List)
			protected.Post("/projects", dep.ProjectsHandler.Create)
			protected.Delete("/projects/{projectID}", dep.ProjectsHandler.Delete)
			protected.Get("/projects/{projectID}/preview", dep.ProjectsHandler.Preview)
			protected.Post("/projects/{projectID}/code", dep.ProjectsHandler.SaveCode)
			protected.Post("/projects/{projectID}/publish", dep.ProjectsHandler.TogglePublish)

			protected.Post("/projects/{projectID}/revise", dep.RevisionsHandler.Revise)
			protected.Post("/projects/{projectID}/rollback/{versionID}", dep.RevisionsHandler.Rollback)
		})
	})

	return r
}
