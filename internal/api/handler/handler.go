// Package handler implements the gateway's HTTP endpoints. Handlers resolve
// the caller's session from the request context and drive its orchestrator;
// mutating endpoints hold the session's single-flight guard for the duration
// of the request.
package handler

import (
	"errors"
	"net/http"

	"github.com/dallenport/jobpilot/internal/api/middleware"
	"github.com/dallenport/jobpilot/internal/api/response"
	"github.com/dallenport/jobpilot/internal/portal"
	"github.com/dallenport/jobpilot/internal/registry"
	"github.com/dallenport/jobpilot/internal/session"
)

// requireSession pulls the authenticated session out of the context. A missing
// session means the auth middleware did not run for this route.
func requireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := middleware.GetSession(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing session", nil)
		return nil, false
	}
	return s, true
}

// acquireSession resolves the session and takes its single-flight guard.
// Mutating operations on one session never overlap; a second caller gets 409.
func acquireSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := requireSession(w, r)
	if !ok {
		return nil, false
	}
	if !s.TryAcquire() {
		response.Error(w, http.StatusConflict, "OPERATION_IN_PROGRESS",
			"Another operation is already running for this session", nil)
		return nil, false
	}
	return s, true
}

// writeWorkflowError translates orchestration errors to envelope codes.
func writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portal.ErrPortalRejected):
		response.Error(w, http.StatusUnprocessableEntity, "PORTAL_REJECTED",
			portal.RejectionMessage(err, "The job portal rejected the request"), nil)
	case errors.Is(err, portal.ErrPortalTimeout):
		response.Error(w, http.StatusGatewayTimeout, "PORTAL_TIMEOUT",
			"The job portal took too long to respond", nil)
	case errors.Is(err, portal.ErrPortalUnreachable):
		response.Error(w, http.StatusBadGateway, "PORTAL_UNREACHABLE",
			"The job portal is not reachable", nil)
	case errors.Is(err, registry.ErrDuplicateApplication):
		response.Error(w, http.StatusConflict, "DUPLICATE_APPLICATION",
			"An application for this job was already submitted", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
