package handler

import (
	"net/http"

	"github.com/dallenport/jobpilot/internal/api/response"
	"github.com/go-chi/chi/v5"
)

// NewRejectJobHandler returns the handler for POST /api/v1/jobs/{jobID}/reject.
// Rejection is idempotent; a backfill is attempted only when a candidate was
// actually removed.
func NewRejectJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := acquireSession(w, r)
		if !ok {
			return
		}
		defer s.Release()

		jobID := chi.URLParam(r, "jobID")
		if jobID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobID is required", nil)
			return
		}

		response.JSON(w, s.Orchestrator.RejectJob(r.Context(), jobID))
	}
}
