package models

// WorkingSet is a point-in-time copy of a session's job collections. Snapshots
// are deep copies; mutating one never affects registry state.
type WorkingSet struct {
	Candidates  []Job        `json:"candidates"`
	Applied     []AppliedJob `json:"applied"`
	RejectedIDs []string     `json:"rejectedIds"`
	SelectedIDs []string     `json:"selectedIds"`
	JobCount    int          `json:"jobCount"`
}

// CandidateByID returns the candidate with the given id, or false when absent.
func (w *WorkingSet) CandidateByID(id string) (Job, bool) {
	for _, j := range w.Candidates {
		if j.ID == id {
			return j, true
		}
	}
	return Job{}, false
}
