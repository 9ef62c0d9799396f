package orchestrator

import (
	"context"
	"fmt"

	"github.com/dallenport/jobpilot/internal/portal"
	"github.com/dallenport/jobpilot/pkg/models"
)

// coverLetterDateLayout is the long-form date the cover-letter service expects
// in jobDetails.current_date.
const coverLetterDateLayout = "January 2, 2006"

// ApplicationError is a per-job pipeline failure. It carries the job's display
// title so batch results can name the failures to the user.
type ApplicationError struct {
	Title string
	Err   error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("applying to %q: %v", e.Title, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// applyToJob runs the per-job application sequence: optional cover-letter
// customization, then submission. A customization failure does not abort the
// job; the submission service decides whether a cover letter is mandatory. A
// submission failure is terminal for the job.
func (o *Orchestrator) applyToJob(ctx context.Context, job models.Job) (models.AppliedJob, error) {
	var coverLetterPath string
	if job.RequiresCoverLetter {
		path, err := o.portal.CustomizeCoverLetter(ctx, portal.CoverLetterDetails{
			JobID:       job.ID,
			Company:     job.Company,
			Title:       job.Title,
			CurrentDate: o.now().Format(coverLetterDateLayout),
		})
		if err != nil {
			o.logger().Warn("cover letter customization failed, submitting without one",
				"job_id", job.ID, "company", job.Company, "error", err)
		} else {
			coverLetterPath = path
		}
	}

	appliedDate, err := o.portal.SubmitApplication(ctx, job.ID, coverLetterPath)
	if err != nil {
		return models.AppliedJob{}, &ApplicationError{Title: job.Title, Err: err}
	}
	if appliedDate.IsZero() {
		appliedDate = o.now().UTC()
	}

	record := models.AppliedJob{
		ID:             job.ID,
		Title:          job.Title,
		Company:        job.Company,
		Location:       job.Location,
		AppliedDate:    appliedDate,
		HasCoverLetter: job.RequiresCoverLetter,
	}

	if err := o.registry.MarkApplied(record); err != nil {
		return models.AppliedJob{}, &ApplicationError{Title: job.Title, Err: err}
	}

	if err := o.history.RecordApplication(ctx, o.sessionID, record); err != nil {
		o.logger().Warn("failed to record application history",
			"job_id", job.ID, "error", err)
	}

	return record, nil
}
