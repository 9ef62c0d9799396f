package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/dallenport/jobpilot/internal/api/middleware"
	"github.com/dallenport/jobpilot/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc
	LoginHandler  http.HandlerFunc

	UploadDocuments http.HandlerFunc
	ListJobs        http.HandlerFunc
	RefreshJobs     http.HandlerFunc
	SetJobCount     http.HandlerFunc
	ToggleSelection http.HandlerFunc
	ApplySelected   http.HandlerFunc
	ApplyAll        http.HandlerFunc
	ApplyOne        http.HandlerFunc
	RejectJob       http.HandlerFunc

	ListApplications http.HandlerFunc
	History          http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public routes
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	r.Post("/api/v1/session/login", orNotImplemented(deps.LoginHandler))

	// Session-scoped routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/v1/documents", orNotImplemented(deps.UploadDocuments))

		r.Get("/api/v1/jobs", orNotImplemented(deps.ListJobs))
		r.Post("/api/v1/jobs/refresh", orNotImplemented(deps.RefreshJobs))
		r.Put("/api/v1/jobs/count", orNotImplemented(deps.SetJobCount))
		r.Post("/api/v1/jobs/selection", orNotImplemented(deps.ToggleSelection))

		r.Post("/api/v1/jobs/apply", orNotImplemented(deps.ApplySelected))
		r.Post("/api/v1/jobs/apply-all", orNotImplemented(deps.ApplyAll))
		r.Post("/api/v1/jobs/{jobID}/apply", orNotImplemented(deps.ApplyOne))
		r.Post("/api/v1/jobs/{jobID}/reject", orNotImplemented(deps.RejectJob))

		r.Get("/api/v1/applications", orNotImplemented(deps.ListApplications))
		r.Get("/api/v1/applications/history", orNotImplemented(deps.History))
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
