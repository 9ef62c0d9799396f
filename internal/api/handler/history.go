package handler

import (
	"net/http"
	"strconv"

	"github.com/dallenport/jobpilot/internal/api/response"
	"github.com/dallenport/jobpilot/internal/store"
)

// NewListApplicationsHandler returns the handler for GET /api/v1/applications:
// the applied list from the session's working set.
func NewListApplicationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r)
		if !ok {
			return
		}
		response.JSON(w, s.Orchestrator.Snapshot().Applied)
	}
}

// NewHistoryHandler returns the handler for GET /api/v1/applications/history,
// the cross-session ledger query. A nil store means no database is configured
// and the endpoint reports the ledger as unavailable.
func NewHistoryHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := requireSession(w, r)
		if !ok {
			return
		}

		if st == nil {
			response.Error(w, http.StatusNotFound, "HISTORY_DISABLED",
				"Application history is not configured", nil)
			return
		}

		filter := store.HistoryFilter{
			Company: r.URL.Query().Get("company"),
		}
		if r.URL.Query().Get("scope") == "session" {
			filter.SessionID = s.ID
		}
		if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
			filter.Page = p
		}
		if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
			filter.Limit = l
		}

		records, total, err := st.ListApplications(r.Context(), filter)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Could not query application history", nil)
			return
		}

		page := filter.Page
		if page <= 0 {
			page = 1
		}
		limit := filter.Limit
		if limit <= 0 {
			limit = 50
		}

		response.Collection(w, records, response.PaginationMeta{
			Page:    page,
			Limit:   limit,
			Total:   total,
			HasNext: page*limit < total,
		})
	}
}
