package routes

import (
	"net/http"

	"pv-bknd/internal/config"
	"pv-bknd/internal/handlers"
	"pv-bknd/internal/logger"
	mdlwr "pv-bknd/internal/middleware"
	"pv-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Services are the dependencies the router exposes over HTTP.
type Services struct {
	Catalog  *services.CatalogService
	Projects *services.ProjectService
	Sizing   *services.SizingService
}

func NewRouter(svc Services, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mdlwr.RequestLogger(logr.Logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	sizingHandler := handlers.NewSizingHandler(svc.Sizing, logr.Logger)
	permitHandler := handlers.NewPermitHandler(svc.Sizing, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		if svc.Catalog != nil {
			catalogHandler := handlers.NewCatalogHandler(svc.Catalog, logr.Logger)
			r.Route("/catalog", func(r chi.Router) {
				r.Get("/", catalogHandler.ListComponents)
				r.Get("/{id}", catalogHandler.GetComponent)
				r.Put("/{id}", catalogHandler.PutComponent)
				r.Delete("/{id}", catalogHandler.DeleteComponent)
			})
		}

		if svc.Projects != nil {
			projectHandler := handlers.NewProjectHandler(svc.Projects, svc.Sizing, logr.Logger)
			r.Route("/projects", func(r chi.Router) {
				r.Post("/", projectHandler.CreateProject)
				r.Get("/", projectHandler.ListProjects)
				r.Get("/{id}", projectHandler.GetProject)
				r.Put("/{id}", projectHandler.UpdateProject)
				r.Delete("/{id}", projectHandler.DeleteProject)
				r.Get("/{id}/report", projectHandler.GetProjectReport)
			})
		}

		r.Route("/sizing", func(r chi.Router) {
			r.Post("/report", sizingHandler.Report)
			r.Post("/compatibility", sizingHandler.Compatibility)
			r.Post("/micro-branches", sizingHandler.MicroBranches)
			r.Post("/cables/ac", sizingHandler.AcCable)
			r.Post("/cables/dc", sizingHandler.DcCable)
			r.Get("/climate", sizingHandler.Climate)
			r.Get("/standards", sizingHandler.Standards)
		})

		r.Post("/permits/verify", permitHandler.VerifyPermit)
	})

	return r
}
