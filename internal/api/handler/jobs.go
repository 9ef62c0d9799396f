package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dallenport/jobpilot/internal/api/response"
)

// NewListJobsHandler returns the handler for GET /api/v1/jobs.
func NewListJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r)
		if !ok {
			return
		}
		response.JSON(w, s.Orchestrator.Snapshot())
	}
}

// NewRefreshJobsHandler returns the handler for POST /api/v1/jobs/refresh.
// The candidate list is replaced wholesale by a fresh fetch.
func NewRefreshJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := acquireSession(w, r)
		if !ok {
			return
		}
		defer s.Release()

		set, err := s.Orchestrator.Refresh(r.Context())
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		response.JSON(w, set)
	}
}

// NewJobCountHandler returns the handler for PUT /api/v1/jobs/count.
func NewJobCountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := acquireSession(w, r)
		if !ok {
			return
		}
		defer s.Release()

		var req struct {
			Count int `json:"count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		set, err := s.Orchestrator.SetJobCount(r.Context(), req.Count)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}
		response.JSON(w, set)
	}
}

// NewToggleSelectionHandler returns the handler for POST /api/v1/jobs/selection.
// Toggling a non-candidate id is a no-op and still returns the snapshot.
func NewToggleSelectionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r)
		if !ok {
			return
		}

		var req struct {
			JobID string `json:"jobId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.JobID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobId is required", nil)
			return
		}

		response.JSON(w, s.Orchestrator.ToggleSelection(req.JobID))
	}
}
