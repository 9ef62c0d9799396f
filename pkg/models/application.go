package models

import "time"

// AppliedJob records a successful submission, derived from the Job at apply time.
// AppliedDate comes from the submission service when provided, otherwise the
// client's clock at submission.
type AppliedJob struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	AppliedDate    time.Time `json:"appliedDate"`
	HasCoverLetter bool      `json:"hasCoverLetter"`
}
