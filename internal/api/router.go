package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/taskdeck/taskdeck-be/internal/api/handlers"
	"github.com/taskdeck/taskdeck-be/internal/auth"
	"github.com/taskdeck/taskdeck-be/internal/services"
	"github.com/taskdeck/taskdeck-be/internal/web"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(sessions *auth.SessionManager, users services.UserServiceProvider, tasks services.TaskServiceProvider, renderer *web.Renderer) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(users, sessions, renderer)
	taskHandler := handlers.NewTaskHandler(tasks, renderer)

	r.Handle("/static/*", renderer.Static())

	// Public routes
	r.Get("/", authHandler.Home)
	r.Get("/signup", authHandler.SignupForm)
	r.Post("/signup", authHandler.Signup)
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)

	// Protected routes: a missing or invalid session redirects to /login
	r.Group(func(r chi.Router) {
		r.Use(sessions.Protect)

		r.Get("/logout", authHandler.Logout)
		r.Get("/tasks", taskHandler.List)
		r.Get("/add", taskHandler.AddForm)
		r.Post("/add", taskHandler.Add)
		r.Get("/edit/{id}", taskHandler.EditForm)
		r.Post("/edit/{id}", taskHandler.Edit)
		r.Post("/delete/{id}", taskHandler.Delete)
		r.Post("/toggle/{id}", taskHandler.Toggle)
	})

	return r
}

// requestLogger logs each request through zerolog so HTTP logs share
// the service's log format.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}
