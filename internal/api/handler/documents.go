package handler

import (
	"net/http"

	"github.com/dallenport/jobpilot/internal/api/response"
	"github.com/dallenport/jobpilot/internal/portal"
)

// Multipart uploads are buffered to disk past this threshold.
const maxUploadMemory = 10 << 20

// NewUploadDocumentsHandler returns the handler for POST /api/v1/documents.
// The resume part is required, the cover letter optional. A successful upload
// triggers the initial candidate fetch and returns the first working set.
func NewUploadDocumentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := acquireSession(w, r)
		if !ok {
			return
		}
		defer s.Release()

		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Request must be multipart/form-data", nil)
			return
		}

		resume, resumeHeader, err := r.FormFile("resume")
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"resume file is required", nil)
			return
		}
		defer resume.Close()

		req := portal.UploadRequest{
			ResumeName: resumeHeader.Filename,
			Resume:     resume,
		}

		if cover, coverHeader, err := r.FormFile("coverLetter"); err == nil {
			defer cover.Close()
			req.CoverLetterName = coverHeader.Filename
			req.CoverLetter = cover
		}

		set, err := s.Orchestrator.UploadAndMatch(r.Context(), req)
		if err != nil {
			writeWorkflowError(w, err)
			return
		}

		response.JSON(w, set)
	}
}
