package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/slidegenius/slidegenius/internal/api/middleware"
	"github.com/slidegenius/slidegenius/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	SignupHandler http.HandlerFunc
	LoginHandler  http.HandlerFunc

	GenerateHandler http.HandlerFunc
	StatusHandler   http.HandlerFunc
	ListHandler     http.HandlerFunc
	GetHandler      http.HandlerFunc
	UpdateHandler   http.HandlerFunc
	DeleteHandler   http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public routes
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	r.Post("/api/v1/auth/signup", orNotImplemented(deps.SignupHandler))
	r.Post("/api/v1/auth/login", orNotImplemented(deps.LoginHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)

		// Rate limiting guards the expensive path only: generation burns
		// model inference, reads do not.
		r.Group(func(r chi.Router) {
			r.Use(deps.RateLimit.Limit)
			r.Post("/api/v1/presentations/generate", orNotImplemented(deps.GenerateHandler))
		})

		r.Get("/api/v1/presentations", orNotImplemented(deps.ListHandler))
		r.Get("/api/v1/presentations/{presentationID}", orNotImplemented(deps.GetHandler))
		r.Get("/api/v1/presentations/{presentationID}/status", orNotImplemented(deps.StatusHandler))
		r.Put("/api/v1/presentations/{presentationID}", orNotImplemented(deps.UpdateHandler))
		r.Delete("/api/v1/presentations/{presentationID}", orNotImplemented(deps.DeleteHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
