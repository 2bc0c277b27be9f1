package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/Veraticus/customs-triage/internal/storage"
	"github.com/Veraticus/customs-triage/internal/urgency"
)

// Verifier reconciles stored priorities against the oracle.
type Verifier struct {
	jobs       JobLister
	classifier *urgency.Classifier
}

// Report is the outcome of a verification run.
type Report struct {
	Counts  map[urgency.Outcome]int  `json:"counts"`
	Results []urgency.Reconciliation `json:"results"`
}

// NewVerifier creates a verifier reading from jobs.
func NewVerifier(jobs JobLister, classifier *urgency.Classifier) *Verifier {
	return &Verifier{jobs: jobs, classifier: classifier}
}

// Verify reconciles every stored job as of now.
func (v *Verifier) Verify(ctx context.Context, now time.Time) (*Report, error) {
	jobs, err := v.jobs.ListJobs(ctx, storage.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	return VerifyJobs(v.classifier, jobs, now), nil
}

// VerifyJobs reconciles an in-memory listing.
func VerifyJobs(classifier *urgency.Classifier, jobs []model.Job, now time.Time) *Report {
	report := &Report{
		Counts:  make(map[urgency.Outcome]int),
		Results: make([]urgency.Reconciliation, 0, len(jobs)),
	}
	for _, job := range jobs {
		r := classifier.Reconcile(job, now)
		report.Results = append(report.Results, r)
		report.Counts[r.Outcome]++
	}
	return report
}

// Total returns the number of jobs checked.
func (r *Report) Total() int {
	return len(r.Results)
}

// OK reports whether every job agrees with the oracle.
func (r *Report) OK() bool {
	return r.Counts[urgency.OutcomeAgree] == len(r.Results)
}

// Mismatches returns the results that do not agree, in input order.
func (r *Report) Mismatches() []urgency.Reconciliation {
	var out []urgency.Reconciliation
	for _, res := range r.Results {
		if res.Outcome != urgency.OutcomeAgree {
			out = append(out, res)
		}
	}
	return out
}
