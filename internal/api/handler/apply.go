package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dallenport/jobpilot/internal/api/response"
	"github.com/dallenport/jobpilot/internal/orchestrator"
	"github.com/dallenport/jobpilot/internal/session"
	"github.com/dallenport/jobpilot/pkg/models"
	"github.com/go-chi/chi/v5"
)

type batchResponse struct {
	Succeeded  []models.AppliedJob `json:"succeeded"`
	Failed     []string            `json:"failed"`
	Message    string              `json:"message,omitempty"`
	WorkingSet models.WorkingSet   `json:"workingSet"`
}

// NewApplySelectedHandler returns the handler for POST /api/v1/jobs/apply.
// The body may name explicit jobIds; when omitted the session's current
// selection is used. An empty selection is a no-op, not an error.
func NewApplySelectedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := acquireSession(w, r)
		if !ok {
			return
		}
		defer s.Release()

		var req struct {
			JobIDs []string `json:"jobIds"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
				return
			}
		}

		ids := req.JobIDs
		if len(ids) == 0 {
			ids = s.Orchestrator.Snapshot().SelectedIDs
		}

		result, err := s.Orchestrator.ApplyToSelected(r.Context(), ids)
		writeBatchResult(w, s, result, err)
	}
}

// NewApplyAllHandler returns the handler for POST /api/v1/jobs/apply-all.
func NewApplyAllHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := acquireSession(w, r)
		if !ok {
			return
		}
		defer s.Release()

		result, err := s.Orchestrator.ApplyToAll(r.Context())
		writeBatchResult(w, s, result, err)
	}
}

// NewApplyOneHandler returns the handler for POST /api/v1/jobs/{jobID}/apply.
func NewApplyOneHandler() http.HandlerFunc {
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

		result, err := s.Orchestrator.ApplyToJob(r.Context(), jobID)
		writeBatchResult(w, s, result, err)
	}
}

// writeBatchResult renders a batch outcome. An empty selection reads as a
// no-op message rather than a failure.
func writeBatchResult(w http.ResponseWriter, s *session.Session, result *orchestrator.BatchResult, err error) {
	if err != nil {
		if errors.Is(err, orchestrator.ErrEmptySelection) {
			response.JSON(w, batchResponse{
				Succeeded:  []models.AppliedJob{},
				Failed:     []string{},
				Message:    "No jobs selected",
				WorkingSet: s.Orchestrator.Snapshot(),
			})
			return
		}
		writeWorkflowError(w, err)
		return
	}

	resp := batchResponse{
		Succeeded:  result.Succeeded,
		Failed:     result.Failed,
		WorkingSet: s.Orchestrator.Snapshot(),
	}
	if resp.Succeeded == nil {
		resp.Succeeded = []models.AppliedJob{}
	}
	if resp.Failed == nil {
		resp.Failed = []string{}
	}
	response.JSON(w, resp)
}
