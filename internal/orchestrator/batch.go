package orchestrator

import (
	"context"
	"errors"

	"github.com/dallenport/jobpilot/pkg/models"
)

// ErrEmptySelection is returned when a batch apply is requested with nothing
// selected. Callers report it as a no-op warning, not a failure.
var ErrEmptySelection = errors.New("no jobs selected")

// BatchResult aggregates per-job outcomes of one batch apply.
type BatchResult struct {
	Succeeded []models.AppliedJob
	Failed    []string // display titles of jobs that could not be applied to
}

// ApplyToSelected runs the application pipeline over the given job ids,
// strictly in order. Each job's failure is isolated: a failed submission
// leaves that job in the candidate list (it remains a valid candidate to
// retry) and processing continues with the next id. After the batch, one
// backfill is issued for as many replacements as there were successes.
// Selection state is cleared whatever the outcome.
func (o *Orchestrator) ApplyToSelected(ctx context.Context, ids []string) (*BatchResult, error) {
	defer o.registry.ClearSelection()

	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	result := &BatchResult{}
	for _, id := range ids {
		job, ok := o.registry.Candidate(id)
		if !ok {
			// Not a current candidate: already applied, rejected, or never
			// fetched. Nothing to do for it.
			o.logger().Warn("skipping non-candidate job in batch", "job_id", id)
			continue
		}

		record, err := o.applyToJob(ctx, job)
		if err != nil {
			var appErr *ApplicationError
			if errors.As(err, &appErr) {
				result.Failed = append(result.Failed, appErr.Title)
			} else {
				result.Failed = append(result.Failed, job.Title)
			}
			o.logger().Warn("application failed", "job_id", id, "title", job.Title, "error", err)
			continue
		}
		result.Succeeded = append(result.Succeeded, record)
	}

	if n := len(result.Succeeded); n > 0 {
		o.backfill(ctx, n)
	}

	return result, nil
}

// ApplyToAll applies to every current candidate, in list order.
func (o *Orchestrator) ApplyToAll(ctx context.Context) (*BatchResult, error) {
	return o.ApplyToSelected(ctx, o.registry.CandidateIDs())
}

// ApplyToJob applies to a single candidate.
func (o *Orchestrator) ApplyToJob(ctx context.Context, id string) (*BatchResult, error) {
	return o.ApplyToSelected(ctx, []string{id})
}
