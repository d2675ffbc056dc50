package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/impulseapp/impulse-api/internal/logging"
	"github.com/impulseapp/impulse-api/internal/server/config"
)

const apiVersion = "1.0.0"

// NewRouter assembles the full HTTP surface: middleware chain, the public
// auth endpoints, and the bearer-protected sync and account endpoints.
func NewRouter(cfg *config.Config, logger logging.Logger, authSvc AuthService, syncSvc SyncService) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(cfg.CORSOrigin))

	secret := []byte(cfg.JWTSecret)
	authHandler := NewAuthHandler(authSvc, logger)
	syncHandler := NewSyncHandler(syncSvc, logger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"name":    "Impulse API",
			"version": apiVersion,
			"status":  "running",
			"docs":    "/api/health",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, struct {
				Success   bool      `json:"success"`
				Message   string    `json:"message"`
				Timestamp time.Time `json:"timestamp"`
			}{true, "Impulse API is running", time.Now().UTC()})
		})

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", authHandler.Register)
			ar.Post("/login", authHandler.Login)
			ar.Post("/refresh", authHandler.Refresh)
			ar.Post("/logout", authHandler.Logout)

			ar.Group(func(pr chi.Router) {
				pr.Use(RequireAuth(secret))
				pr.Get("/me", authHandler.Me)
				pr.Post("/logout-all", authHandler.LogoutAll)
			})
		})

		api.Route("/sync", func(sr chi.Router) {
			sr.Use(RequireAuth(secret))
			sr.Get("/pull", syncHandler.Pull)
			sr.Post("/push", syncHandler.Push)
		})
	})

	notFound := func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, fmt.Sprintf("Route %s %s not found", r.Method, r.URL.Path))
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}
