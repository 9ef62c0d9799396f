// Package registry owns a session's Working Set: the candidate, applied and
// rejected job collections. It is the only code allowed to mutate them, which
// keeps the disjointness invariant (no id in more than one collection) in one
// place.
package registry

import (
	"errors"
	"sync"

	"github.com/dallenport/jobpilot/pkg/models"
)

// ErrDuplicateApplication is returned when a job id is already in the applied
// collection.
var ErrDuplicateApplication = errors.New("job already applied")

// Registry holds the Working Set for one session. Mutations are serialized by
// the session's single-flight guard; the mutex exists so Snapshot never
// observes a half-applied mutation.
type Registry struct {
	mu          sync.Mutex
	candidates  []models.Job
	applied     []models.AppliedJob
	rejectedIDs map[string]struct{}
	selectedIDs map[string]struct{}
	jobCount    int
}

// New creates an empty Registry with the given target candidate count.
func New(jobCount int) *Registry {
	return &Registry{
		rejectedIDs: make(map[string]struct{}),
		selectedIDs: make(map[string]struct{}),
		jobCount:    jobCount,
	}
}

// UpsertCandidates appends jobs to the candidate list, skipping any whose id
// already exists in candidates, applied, or rejected. The matching service is
// expected to honor the exclusion sets, but is not trusted to.
func (r *Registry) UpsertCandidates(jobs []models.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range jobs {
		if r.knownLocked(job.ID) {
			continue
		}
		r.candidates = append(r.candidates, job)
	}
}

// ReplaceCandidates swaps the candidate list wholesale, used when the target
// size changes or the user refreshes. Jobs already applied or rejected are
// filtered out, and stale selections are dropped.
func (r *Registry) ReplaceCandidates(jobs []models.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.candidates = r.candidates[:0]
	seen := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		if _, dup := seen[job.ID]; dup {
			continue
		}
		if _, rejected := r.rejectedIDs[job.ID]; rejected {
			continue
		}
		if r.appliedLocked(job.ID) {
			continue
		}
		seen[job.ID] = struct{}{}
		r.candidates = append(r.candidates, job)
	}

	for id := range r.selectedIDs {
		if _, ok := seen[id]; !ok {
			delete(r.selectedIDs, id)
		}
	}
}

// RemoveCandidates removes matching entries from the candidate list and their
// selections. Unknown ids are a no-op.
func (r *Registry) RemoveCandidates(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		remove[id] = struct{}{}
	}

	kept := r.candidates[:0]
	for _, job := range r.candidates {
		if _, ok := remove[job.ID]; ok {
			delete(r.selectedIDs, job.ID)
			continue
		}
		kept = append(kept, job)
	}
	r.candidates = kept
}

// MarkApplied removes the job from candidates (if present) and appends the
// record to the applied list. Fails with ErrDuplicateApplication, leaving
// state unchanged, when the id was already applied.
func (r *Registry) MarkApplied(record models.AppliedJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.appliedLocked(record.ID) {
		return ErrDuplicateApplication
	}

	r.removeCandidateLocked(record.ID)
	r.applied = append(r.applied, record)
	return nil
}

// MarkRejected removes the job from candidates and records its id as rejected.
// Idempotent: rejecting an already-rejected id is a no-op.
func (r *Registry) MarkRejected(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeCandidateLocked(id)
	r.rejectedIDs[id] = struct{}{}
}

// ToggleSelection flips the selection state of a candidate. Selecting an id
// that is not a current candidate is a no-op.
func (r *Registry) ToggleSelection(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.selectedIDs[id]; ok {
		delete(r.selectedIDs, id)
		return
	}
	for _, job := range r.candidates {
		if job.ID == id {
			r.selectedIDs[id] = struct{}{}
			return
		}
	}
}

// ClearSelection drops all selections. Called unconditionally after every
// batch-apply attempt.
func (r *Registry) ClearSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.selectedIDs)
}

// CandidateIDs returns the ids of all current candidates, in list order.
func (r *Registry) CandidateIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.candidates))
	for _, job := range r.candidates {
		ids = append(ids, job.ID)
	}
	return ids
}

// Candidate returns the candidate with the given id.
func (r *Registry) Candidate(id string) (models.Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, job := range r.candidates {
		if job.ID == id {
			return job, true
		}
	}
	return models.Job{}, false
}

// Exclusions returns the applied and rejected id sets as they stand right now,
// for use as fetch exclusion parameters.
func (r *Registry) Exclusions() (appliedIDs, rejectedIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appliedIDs = make([]string, 0, len(r.applied))
	for _, rec := range r.applied {
		appliedIDs = append(appliedIDs, rec.ID)
	}
	rejectedIDs = make([]string, 0, len(r.rejectedIDs))
	for id := range r.rejectedIDs {
		rejectedIDs = append(rejectedIDs, id)
	}
	return appliedIDs, rejectedIDs
}

// JobCount returns the target candidate-list size.
func (r *Registry) JobCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobCount
}

// SetJobCount updates the target candidate-list size.
func (r *Registry) SetJobCount(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobCount = n
}

// Snapshot returns a deep copy of the Working Set for rendering. Callers may
// hold or mutate it freely.
func (r *Registry) Snapshot() models.WorkingSet {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws := models.WorkingSet{
		Candidates:  make([]models.Job, len(r.candidates)),
		Applied:     make([]models.AppliedJob, len(r.applied)),
		RejectedIDs: make([]string, 0, len(r.rejectedIDs)),
		SelectedIDs: make([]string, 0, len(r.selectedIDs)),
		JobCount:    r.jobCount,
	}
	copy(ws.Candidates, r.candidates)
	copy(ws.Applied, r.applied)
	for id := range r.rejectedIDs {
		ws.RejectedIDs = append(ws.RejectedIDs, id)
	}
	for id := range r.selectedIDs {
		ws.SelectedIDs = append(ws.SelectedIDs, id)
	}
	return ws
}

func (r *Registry) knownLocked(id string) bool {
	if _, rejected := r.rejectedIDs[id]; rejected {
		return true
	}
	if r.appliedLocked(id) {
		return true
	}
	for _, job := range r.candidates {
		if job.ID == id {
			return true
		}
	}
	return false
}

func (r *Registry) appliedLocked(id string) bool {
	for _, rec := range r.applied {
		if rec.ID == id {
			return true
		}
	}
	return false
}

func (r *Registry) removeCandidateLocked(id string) {
	for i, job := range r.candidates {
		if job.ID == id {
			r.candidates = append(r.candidates[:i], r.candidates[i+1:]...)
			delete(r.selectedIDs, id)
			return
		}
	}
}
