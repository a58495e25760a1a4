package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"adminconsole/internal/config"
	"adminconsole/internal/http/handlers"
	middlewarex "adminconsole/internal/http/middleware"
	"adminconsole/internal/observability"
	sessionsvc "adminconsole/internal/services/session"
	"adminconsole/internal/services/views"
	"adminconsole/internal/upstream"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config   config.Cfg
	Sessions *sessionsvc.Service
	Views    *views.Manager
	Backend  *upstream.Client
	Metrics  *observability.Metrics
}

// NewRouter creates the HTTP router of the console API
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middlewarex.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Sec.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if deps.Config.Sec.RateLimitPerMin > 0 {
		r.Use(httprate.LimitByIP(deps.Config.Sec.RateLimitPerMin, time.Minute))
	}
	r.Use(deps.Metrics.Middleware)

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", deps.Metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", handlers.Login(deps.Sessions))
		r.Post("/register", handlers.Register(deps.Sessions))
		r.With(middlewarex.SessionAuth(deps.Sessions)).Post("/logout", handlers.Logout(deps.Sessions))
	})

	// Everything below needs a console session
	r.Group(func(r chi.Router) {
		r.Use(middlewarex.SessionAuth(deps.Sessions))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", handlers.GetSession())
			r.Put("/corporate", handlers.SelectCorporate(deps.Sessions))
			r.Post("/corporates/refresh", handlers.RefreshCorporates(deps.Sessions))
		})

		r.Route("/views", func(r chi.Router) {
			r.Post("/", handlers.OpenView(deps.Views))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", handlers.GetView(deps.Views))
				r.Patch("/", handlers.UpdateView(deps.Views))
				r.Delete("/", handlers.CloseView(deps.Views))
				r.Post("/refetch", handlers.RefetchView(deps.Views))
				r.Get("/events", handlers.ViewEvents(deps.Views))
			})
		})

		r.Post("/corporates", handlers.CreateCorporate(deps.Backend, deps.Sessions, deps.Views))

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", handlers.CreateProject(deps.Backend, deps.Views))
			r.Post("/from-template", handlers.CreateProjectFromTemplate(deps.Backend, deps.Views))
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", handlers.GetProject(deps.Backend))
				r.Put("/", handlers.UpdateProject(deps.Backend, deps.Views))
				r.Post("/assignment", handlers.AssignUsersToProject(deps.Backend, deps.Views))

				r.Post("/phases", handlers.CreatePhase(deps.Backend, deps.Views))
				r.Put("/phases/{phaseID}", handlers.UpdatePhase(deps.Backend, deps.Views))

				r.Post("/task-groups", handlers.CreateTaskGroup(deps.Backend, deps.Views))
				r.Get("/task-groups/{taskGroupID}", handlers.GetTaskGroup(deps.Backend))
				r.Put("/task-groups/{taskGroupID}", handlers.UpdateTaskGroup(deps.Backend, deps.Views))
				r.Post("/task-groups/{taskGroupID}/assignment", handlers.AssignUsersToTaskGroup(deps.Backend, deps.Views))
			})
		})
	})

	return r
}
