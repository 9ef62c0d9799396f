package models

// Job is a posting returned by the matching service. Fields are immutable once
// fetched; only set membership (candidate/applied/rejected) changes afterwards.
type Job struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Company             string `json:"company"`
	Location            string `json:"location"`
	Type                string `json:"type"`
	Posted              string `json:"posted"`
	RequiresCoverLetter bool   `json:"requiresCoverLetter"`
	RelevanceScore      int    `json:"relevanceScore"`
}
