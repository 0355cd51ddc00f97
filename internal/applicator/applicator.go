// Package applicator applies changes to the tracked pipeline: promoting
// postings to jobs, application status updates, resumes, contacts and
// profile merges. Every change goes through a database.Repository update.
package applicator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/jobscout/internal/app"
	"github.com/khrees2412/jobscout/internal/database"
	"github.com/khrees2412/jobscout/pkg/models"
)

// Application statuses
const (
	StatusPending   = "pending"
	StatusApplied   = "applied"
	StatusInterview = "interview"
	StatusRejected  = "rejected"
	StatusOffer     = "offer"
	StatusAccepted  = "accepted"
)

// Statuses lists every valid status in pipeline order.
var Statuses = []string{StatusPending, StatusApplied, StatusInterview, StatusRejected, StatusOffer, StatusAccepted}

// SourceManual marks jobs added by hand.
const SourceManual = "manual"

var now = time.Now

func newID() string {
	return uuid.NewString()
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// PromoteOptions tune Promote.
type PromoteOptions struct {
	ResumeID string // empty selects the default resume
	Status   string // empty means pending
	Notes    string
}

// Promote stores a ranked posting as a job with a matching application.
func Promote(ctx context.Context, repo database.Repository, p models.ScoredPosting, opts PromoteOptions) (*models.Job, *models.Application, error) {
	status := opts.Status
	if status == "" {
		status = StatusPending
	}
	if !ValidStatus(status) {
		return nil, nil, fmt.Errorf("%w: unknown status %q", app.ErrInvalidArgument, status)
	}

	var job models.Job
	var application models.Application
	err := repo.Update(ctx, func(s *models.Snapshot) error {
		if s.FindJobByURL(p.URL) != nil {
			return fmt.Errorf("%w: %s", app.ErrDuplicateURL, p.URL)
		}

		resumeID := opts.ResumeID
		if resumeID == "" {
			if r := s.DefaultResume(); r != nil {
				resumeID = r.ID
			}
		}

		t := now()
		job = models.Job{
			ID:          newID(),
			Title:       p.Title,
			Company:     p.Company,
			Location:    p.Location,
			URL:         p.URL,
			Description: p.Description,
			Source:      p.Source,
			PostedDate:  p.PostedDate,
			Remote:      p.Remote,
			MatchScore:  p.Score,
			AddedAt:     t,
		}
		application = models.Application{
			ID:        newID(),
			JobID:     job.ID,
			ResumeID:  resumeID,
			Status:    status,
			AppliedAt: t,
			Notes:     opts.Notes,
		}
		s.Jobs = append(s.Jobs, job)
		s.Applications = append(s.Applications, application)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &job, &application, nil
}

// AddJob stores a manually entered job.
func AddJob(ctx context.Context, repo database.Repository, job models.Job) (*models.Job, error) {
	job.Title = strings.TrimSpace(job.Title)
	job.Company = strings.TrimSpace(job.Company)
	if job.Title == "" || job.Company == "" {
		return nil, fmt.Errorf("%w: title and company are required", app.ErrInvalidArgument)
	}
	if job.Source == "" {
		job.Source = SourceManual
	}

	err := repo.Update(ctx, func(s *models.Snapshot) error {
		if s.FindJobByURL(job.URL) != nil {
			return fmt.Errorf("%w: %s", app.ErrDuplicateURL, job.URL)
		}
		job.ID = newID()
		job.AddedAt = now()
		s.Jobs = append(s.Jobs, job)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// RemoveJob deletes a job and its applications.
func RemoveJob(ctx context.Context, repo database.Repository, id string) error {
	return repo.Update(ctx, func(s *models.Snapshot) error {
		idx := -1
		for i, j := range s.Jobs {
			if j.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("job %s: %w", id, app.ErrNotFound)
		}
		s.Jobs = append(s.Jobs[:idx], s.Jobs[idx+1:]...)

		kept := s.Applications[:0]
		for _, a := range s.Applications {
			if a.JobID != id {
				kept = append(kept, a)
			}
		}
		s.Applications = kept
		return nil
	})
}

// UpdateStatus sets the status of an application, found by its own ID or by
// its job ID. Notes replace the existing ones only when not empty.
func UpdateStatus(ctx context.Context, repo database.Repository, id, status, notes string) (*models.Application, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q (want one of %s)", app.ErrInvalidArgument, status, strings.Join(Statuses, ", "))
	}

	var updated models.Application
	err := repo.Update(ctx, func(s *models.Snapshot) error {
		a := findApplication(s, id)
		if a == nil {
			return fmt.Errorf("application %s: %w", id, app.ErrNotFound)
		}
		a.Status = status
		if notes != "" {
			a.Notes = notes
		}
		updated = *a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetFollowUp records when to follow up on an application.
func SetFollowUp(ctx context.Context, repo database.Repository, id string, date time.Time) error {
	return repo.Update(ctx, func(s *models.Snapshot) error {
		a := findApplication(s, id)
		if a == nil {
			return fmt.Errorf("application %s: %w", id, app.ErrNotFound)
		}
		d := date
		a.FollowUpDate = &d
		return nil
	})
}

func findApplication(s *models.Snapshot, id string) *models.Application {
	if a := s.FindApplication(id); a != nil {
		return a
	}
	for i := range s.Applications {
		if s.Applications[i].JobID == id {
			return &s.Applications[i]
		}
	}
	return nil
}
