package registry_test

import (
	"testing"
	"time"

	"github.com/dallenport/jobpilot/internal/registry"
	"github.com/dallenport/jobpilot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func job(id, title string) models.Job {
	return models.Job{ID: id, Title: title, Company: title + " Inc", Location: "Remote", Type: "Job"}
}

func applied(id, title string) models.AppliedJob {
	return models.AppliedJob{ID: id, Title: title, AppliedDate: time.Now().UTC()}
}

// assertDisjoint verifies the core invariant: candidate, applied and rejected
// id sets never overlap.
func assertDisjoint(t *testing.T, ws models.WorkingSet) {
	t.Helper()
	seen := make(map[string]string)
	for _, j := range ws.Candidates {
		seen[j.ID] = "candidates"
	}
	for _, a := range ws.Applied {
		if where, ok := seen[a.ID]; ok {
			t.Fatalf("id %s in both %s and applied", a.ID, where)
		}
		seen[a.ID] = "applied"
	}
	for _, id := range ws.RejectedIDs {
		if where, ok := seen[id]; ok {
			t.Fatalf("id %s in both %s and rejected", id, where)
		}
	}
}

func TestUpsertCandidates_SkipsDuplicates(t *testing.T) {
	r := registry.New(5)
	r.UpsertCandidates([]models.Job{job("1", "PM"), job("2", "BA")})
	r.UpsertCandidates([]models.Job{job("2", "BA"), job("3", "SC")})

	ws := r.Snapshot()
	require.Len(t, ws.Candidates, 3)
	assert.Equal(t, []string{"1", "2", "3"}, r.CandidateIDs())
	assertDisjoint(t, ws)
}

func TestUpsertCandidates_SkipsAppliedAndRejected(t *testing.T) {
	r := registry.New(5)
	require.NoError(t, r.MarkApplied(applied("1", "PM")))
	r.MarkRejected("2")

	r.UpsertCandidates([]models.Job{job("1", "PM"), job("2", "BA"), job("3", "SC")})

	ws := r.Snapshot()
	require.Len(t, ws.Candidates, 1)
	assert.Equal(t, "3", ws.Candidates[0].ID)
	assertDisjoint(t, ws)
}

func TestReplaceCandidates_Wholesale(t *testing.T) {
	r := registry.New(5)
	r.UpsertCandidates([]models.Job{job("1", "PM"), job("2", "BA")})
	r.ToggleSelection("1")

	r.ReplaceCandidates([]models.Job{job("3", "SC"), job("4", "DA")})

	ws := r.Snapshot()
	assert.Equal(t, []string{"3", "4"}, r.CandidateIDs())
	assert.Empty(t, ws.SelectedIDs, "stale selections must be dropped")
}

func TestReplaceCandidates_FiltersAppliedAndRejected(t *testing.T) {
	r := registry.New(5)
	require.NoError(t, r.MarkApplied(applied("1", "PM")))
	r.MarkRejected("2")

	r.ReplaceCandidates([]models.Job{job("1", "PM"), job("2", "BA"), job("3", "SC")})

	ws := r.Snapshot()
	require.Len(t, ws.Candidates, 1)
	assert.Equal(t, "3", ws.Candidates[0].ID)
	assertDisjoint(t, ws)
}

func TestRemoveCandidates_UnknownIDsNoOp(t *testing.T) {
	r := registry.New(5)
	r.UpsertCandidates([]models.Job{job("1", "PM"), job("2", "BA")})

	r.RemoveCandidates([]string{"2", "99"})

	assert.Equal(t, []string{"1"}, r.CandidateIDs())
}

func TestMarkApplied_RemovesCandidate(t *testing.T) {
	r := registry.New(5)
	r.UpsertCandidates([]models.Job{job("1", "PM"), job("2", "BA")})

	require.NoError(t, r.MarkApplied(applied("1", "PM")))

	ws := r.Snapshot()
	assert.Equal(t, []string{"2"}, r.CandidateIDs())
	require.Len(t, ws.Applied, 1)
	assert.Equal(t, "1", ws.Applied[0].ID)
	assertDisjoint(t, ws)
}

func TestMarkApplied_DuplicateFailsUnchanged(t *testing.T) {
	r := registry.New(5)
	require.NoError(t, r.MarkApplied(applied("1", "PM")))
	before := r.Snapshot()

	err := r.MarkApplied(applied("1", "PM"))
	require.ErrorIs(t, err, registry.ErrDuplicateApplication)

	after := r.Snapshot()
	assert.Equal(t, before.Applied, after.Applied)
	assert.Equal(t, before.Candidates, after.Candidates)
}

func TestMarkRejected_Idempotent(t *testing.T) {
	r := registry.New(5)
	r.UpsertCandidates([]models.Job{job("1", "PM")})

	r.MarkRejected("1")
	once := r.Snapshot()
	r.MarkRejected("1")
	twice := r.Snapshot()

	assert.Equal(t, once.RejectedIDs, twice.RejectedIDs)
	assert.Equal(t, once.Candidates, twice.Candidates)
	assertDisjoint(t, twice)
}

func TestToggleSelection(t *testing.T) {
	r := registry.New(5)
	r.UpsertCandidates([]models.Job{job("1", "PM")})

	r.ToggleSelection("1")
	assert.Equal(t, []string{"1"}, r.Snapshot().SelectedIDs)

	r.ToggleSelection("1")
	assert.Empty(t, r.Snapshot().SelectedIDs)

	// Unknown ids are not selectable.
	r.ToggleSelection("99")
	assert.Empty(t, r.Snapshot().SelectedIDs)
}

func TestClearSelection(t *testing.T) {
	r := registry.New(5)
	r.UpsertCandidates([]models.Job{job("1", "PM"), job("2", "BA")})
	r.ToggleSelection("1")
	r.ToggleSelection("2")

	r.ClearSelection()
	assert.Empty(t, r.Snapshot().SelectedIDs)
}

func TestExclusions_ReflectCurrentState(t *testing.T) {
	r := registry.New(5)
	require.NoError(t, r.MarkApplied(applied("1", "PM")))
	r.MarkRejected("2")

	appliedIDs, rejectedIDs := r.Exclusions()
	assert.Equal(t, []string{"1"}, appliedIDs)
	assert.Equal(t, []string{"2"}, rejectedIDs)

	require.NoError(t, r.MarkApplied(applied("3", "SC")))
	appliedIDs, _ = r.Exclusions()
	assert.ElementsMatch(t, []string{"1", "3"}, appliedIDs)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	r := registry.New(5)
	r.UpsertCandidates([]models.Job{job("1", "PM")})

	ws := r.Snapshot()
	ws.Candidates[0].Title = "mutated"
	ws.Candidates = nil

	after := r.Snapshot()
	require.Len(t, after.Candidates, 1)
	assert.Equal(t, "PM", after.Candidates[0].Title)
}

func TestJobCount(t *testing.T) {
	r := registry.New(5)
	assert.Equal(t, 5, r.JobCount())

	r.SetJobCount(8)
	assert.Equal(t, 8, r.JobCount())
	assert.Equal(t, 8, r.Snapshot().JobCount)
}
