// Package orchestrator drives the job-application workflow for one session:
// keeping the candidate list filled, applying to selected jobs with per-job
// failure isolation, and backfilling after removals.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/dallenport/jobpilot/internal/portal"
	"github.com/dallenport/jobpilot/internal/registry"
	"github.com/dallenport/jobpilot/pkg/models"
	"github.com/google/uuid"
)

// HistoryRecorder persists successful applications outside the session. The
// working set in the registry stays authoritative; recording is best-effort.
type HistoryRecorder interface {
	RecordApplication(ctx context.Context, sessionID uuid.UUID, record models.AppliedJob) error
}

// NopHistory discards application records, used when no database is configured.
type NopHistory struct{}

func (NopHistory) RecordApplication(context.Context, uuid.UUID, models.AppliedJob) error {
	return nil
}

// Orchestrator owns one session's workflow. All operations on a given
// Orchestrator are serialized by the session layer; no two batches or fetches
// ever run concurrently.
type Orchestrator struct {
	sessionID uuid.UUID
	registry  *registry.Registry
	portal    portal.Client
	history   HistoryRecorder
	now       func() time.Time
}

// New creates an Orchestrator with an empty working set and the given target
// candidate count.
func New(sessionID uuid.UUID, client portal.Client, history HistoryRecorder, jobCount int) *Orchestrator {
	if history == nil {
		history = NopHistory{}
	}
	return &Orchestrator{
		sessionID: sessionID,
		registry:  registry.New(clampJobCount(jobCount)),
		portal:    client,
		history:   history,
		now:       time.Now,
	}
}

// UploadAndMatch ingests the user's documents through the portal and performs
// the initial candidate fetch at the target size. Both steps are blocking
// failures: no workflow can proceed without them.
func (o *Orchestrator) UploadAndMatch(ctx context.Context, req portal.UploadRequest) (models.WorkingSet, error) {
	if err := o.portal.UploadDocuments(ctx, req); err != nil {
		return models.WorkingSet{}, err
	}

	jobs, err := o.fetchCandidates(ctx, o.registry.JobCount())
	if err != nil {
		return models.WorkingSet{}, err
	}
	o.registry.ReplaceCandidates(jobs)
	return o.registry.Snapshot(), nil
}

// RejectJob marks a job as not interested and backfills a single replacement.
// A failed backfill is swallowed; the user simply sees a shorter list.
func (o *Orchestrator) RejectJob(ctx context.Context, id string) models.WorkingSet {
	_, wasCandidate := o.registry.Candidate(id)
	o.registry.MarkRejected(id)

	if wasCandidate {
		o.backfill(ctx, 1)
	}
	return o.registry.Snapshot()
}

// ToggleSelection flips a candidate's selection state.
func (o *Orchestrator) ToggleSelection(id string) models.WorkingSet {
	o.registry.ToggleSelection(id)
	return o.registry.Snapshot()
}

// Snapshot returns the current Working Set.
func (o *Orchestrator) Snapshot() models.WorkingSet {
	return o.registry.Snapshot()
}

func (o *Orchestrator) logger() *slog.Logger {
	return slog.Default().With("session_id", o.sessionID)
}
