package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"waypoint/internal/auth"
	"waypoint/internal/bus"
	"waypoint/internal/paths"
)

// RouterOptions carries the collaborators wired into the HTTP surface.
type RouterOptions struct {
	Auth           *auth.Service
	Ledger         *paths.Ledger
	Bus            *bus.Bus
	AllowedOrigins []string
}

// API holds the request orchestrators behind the HTTP handlers.
type API struct {
	auth   *auth.Service
	ledger *paths.Ledger
	bus    *bus.Bus
}

// Router builds the HTTP router with health, metrics, auth, and session routes.
func Router(opts RouterOptions) http.Handler {
	a := &API{auth: opts.Auth, ledger: opts.Ledger, bus: opts.Bus}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	allowed := opts.AllowedOrigins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)
		r.Post("/refresh", a.handleRefresh)
		r.With(a.requireUser).Post("/logout", a.handleLogout)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Use(a.requireUser)
		r.Post("/create", a.handleCreateSession)
		r.Post("/stop", a.handleStopSession)
		r.Get("/get_all", a.handleListSessions)
		r.Post("/{name}/add_point", a.handleAddPoint)
		r.Get("/{name}/path", a.handleGetPath)
	})

	return r
}
