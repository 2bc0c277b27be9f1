package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/customs-triage/internal/model"
)

// Storage errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrEmptySlice    = errors.New("slice cannot be empty")
	ErrInvalidJob    = errors.New("invalid job")
	ErrInvalidUpdate = errors.New("invalid priority update")
	ErrJobNotFound   = errors.New("job not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateJobs(jobs []model.Job) error {
	if len(jobs) == 0 {
		return fmt.Errorf("%w: jobs", ErrEmptySlice)
	}
	seen := make(map[string]struct{}, len(jobs))
	for i := range jobs {
		if err := validateJob(&jobs[i]); err != nil {
			return fmt.Errorf("job at index %d: %w", i, err)
		}
		if _, dup := seen[jobs[i].ID]; dup {
			return fmt.Errorf("job at index %d: %w: duplicate ID %q", i, ErrInvalidJob, jobs[i].ID)
		}
		seen[jobs[i].ID] = struct{}{}
	}
	return nil
}

// validateJob checks the fields the schema requires. Dates are stored as
// given; unusable dates are the classifier's concern.
func validateJob(job *model.Job) error {
	if strings.TrimSpace(job.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidJob)
	}
	if strings.TrimSpace(string(job.DetailedStatus)) == "" {
		return fmt.Errorf("%w: %s has no detailed status", ErrInvalidJob, job.ID)
	}
	switch job.ConsignmentType {
	case model.ConsignmentFCL, model.ConsignmentLCL, "":
	default:
		return fmt.Errorf("%w: %s has consignment type %q", ErrInvalidJob, job.ID, job.ConsignmentType)
	}
	return nil
}

func validateUpdates(updates []PriorityUpdate) error {
	for i, u := range updates {
		if strings.TrimSpace(u.JobID) == "" {
			return fmt.Errorf("%w: update at index %d has no job ID", ErrInvalidUpdate, i)
		}
		if u.Priority != nil && !model.PriorityTier(*u.Priority).Valid() {
			return fmt.Errorf("%w: job %s priority %d is outside 1-3", ErrInvalidUpdate, u.JobID, *u.Priority)
		}
	}
	return nil
}
