package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dallenport/jobpilot/internal/api/response"
	"github.com/dallenport/jobpilot/internal/portal"
	"github.com/dallenport/jobpilot/internal/session"
)

// NewLoginHandler returns the handler for POST /api/v1/session/login. It
// proxies the credentials to the portal and, on success, mints a session whose
// bearer token is returned exactly once.
func NewLoginHandler(client portal.Client, sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Username == "" || req.Password == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"username and password are required", nil)
			return
		}

		if err := client.Login(r.Context(), req.Username, req.Password); err != nil {
			if errors.Is(err, portal.ErrPortalRejected) {
				response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS",
					portal.RejectionMessage(err, "Invalid username or password"), nil)
				return
			}
			writeWorkflowError(w, err)
			return
		}

		token, s, err := sessions.Create()
		if err != nil {
			slog.Error("session creation failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Could not create session", nil)
			return
		}

		slog.Info("session created", "session_id", s.ID)
		response.Created(w, loginResponse{
			Token:     token,
			SessionID: s.ID.String(),
		})
	}
}

type loginResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
}
