package orchestrator

import (
	"context"

	"github.com/dallenport/jobpilot/pkg/models"
)

// The portal's matching UI offers between 1 and 8 concurrent candidates;
// requests outside that range are clamped rather than rejected.
const (
	minJobCount = 1
	maxJobCount = 8
)

func clampJobCount(n int) int {
	if n < minJobCount {
		return minJobCount
	}
	if n > maxJobCount {
		return maxJobCount
	}
	return n
}

// fetchCandidates requests up to count jobs from the matching service. The
// exclusion sets are read from the registry at call time, never from an
// earlier snapshot, so a fetch issued after a batch always excludes that
// batch's applications. The service may return fewer than count; that is not
// an error.
func (o *Orchestrator) fetchCandidates(ctx context.Context, count int) ([]models.Job, error) {
	appliedIDs, rejectedIDs := o.registry.Exclusions()
	return o.portal.FetchJobs(ctx, count, appliedIDs, rejectedIDs)
}

// backfill fetches up to k replacements and merges them into the candidate
// list. Failures degrade to a warning: losing a backfill must never block the
// apply or reject that triggered it.
func (o *Orchestrator) backfill(ctx context.Context, k int) {
	if k <= 0 {
		return
	}

	jobs, err := o.fetchCandidates(ctx, k)
	if err != nil {
		o.logger().Warn("backfill failed", "requested", k, "error", err)
		return
	}
	o.registry.UpsertCandidates(jobs)
}

// Refresh re-fetches the candidate list wholesale at the current target size.
func (o *Orchestrator) Refresh(ctx context.Context) (models.WorkingSet, error) {
	jobs, err := o.fetchCandidates(ctx, o.registry.JobCount())
	if err != nil {
		return models.WorkingSet{}, err
	}
	o.registry.ReplaceCandidates(jobs)
	return o.registry.Snapshot(), nil
}

// SetJobCount changes the target candidate count and replaces the candidate
// list at the new size. The new target is a new desired view, not an
// incremental addition, so the old list is not merged.
func (o *Orchestrator) SetJobCount(ctx context.Context, n int) (models.WorkingSet, error) {
	o.registry.SetJobCount(clampJobCount(n))
	return o.Refresh(ctx)
}
