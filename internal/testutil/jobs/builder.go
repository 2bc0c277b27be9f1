// Package jobs builds job fixtures whose dates are day offsets from a fixed
// reference time, so tests read in deadline terms rather than calendar dates.
//
// Example usage:
//
//	listing := jobs.NewBuilder(now).
//		ETA("arriving", 0).
//		Billing("billing", model.ConsignmentLCL, -7, -2).
//		WithPriority(2).
//		Build()
package jobs

import (
	"fmt"
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
)

// DateLayout is the date-only form used for generated dates.
const DateLayout = "2006-01-02"

// Builder provides a fluent interface for constructing test jobs.
type Builder struct {
	now  time.Time
	jobs []model.Job
}

// NewBuilder creates a builder whose offsets are relative to now.
func NewBuilder(now time.Time) *Builder {
	return &Builder{now: now}
}

// Date returns the date offset days from the reference time.
func (b *Builder) Date(offset int) string {
	return b.now.AddDate(0, 0, offset).Format(DateLayout)
}

// ETA adds a job awaiting a vessel that berths offset days from now.
func (b *Builder) ETA(id string, offset int) *Builder {
	b.jobs = append(b.jobs, model.Job{
		ID:              id,
		DetailedStatus:  model.StatusEstimatedTimeOfArrival,
		ConsignmentType: model.ConsignmentFCL,
		VesselBerthing:  b.Date(offset),
	})
	return b
}

// Detention adds a job pending clearance with one container per offset,
// each with detention starting offset days from now.
func (b *Builder) Detention(id string, offsets ...int) *Builder {
	job := model.Job{
		ID:              id,
		DetailedStatus:  model.StatusBeNotedClearancePending,
		ConsignmentType: model.ConsignmentFCL,
	}
	for i, off := range offsets {
		job.Containers = append(job.Containers, model.Container{
			ContainerNumber: containerNumber(id, i),
			DetentionFrom:   b.Date(off),
		})
	}
	b.jobs = append(b.jobs, job)
	return b
}

// Billing adds a billing-pending job with one container per offset. LCL
// containers carry the offset as their delivery date, FCL containers as
// their empty container off-load date.
func (b *Builder) Billing(id string, consignment model.ConsignmentType, offsets ...int) *Builder {
	job := model.Job{
		ID:              id,
		DetailedStatus:  model.StatusBillingPending,
		ConsignmentType: consignment,
	}
	for i, off := range offsets {
		c := model.Container{ContainerNumber: containerNumber(id, i)}
		if consignment == model.ConsignmentLCL {
			c.DeliveryDate = b.Date(off)
		} else {
			c.EmptyContainerOffLoadDate = b.Date(off)
		}
		job.Containers = append(job.Containers, c)
	}
	b.jobs = append(b.jobs, job)
	return b
}

// Status adds a job in a status with no dates.
func (b *Builder) Status(id string, status model.DetailedStatus) *Builder {
	b.jobs = append(b.jobs, model.Job{
		ID:              id,
		DetailedStatus:  status,
		ConsignmentType: model.ConsignmentFCL,
	})
	return b
}

// WithPriority sets the stored color priority of the last added job.
func (b *Builder) WithPriority(p int) *Builder {
	if len(b.jobs) > 0 {
		b.jobs[len(b.jobs)-1].ColorPriority = &p
	}
	return b
}

// WithJobNumber sets the job number of the last added job.
func (b *Builder) WithJobNumber(number string) *Builder {
	if len(b.jobs) > 0 {
		b.jobs[len(b.jobs)-1].JobNumber = number
	}
	return b
}

// Build returns the jobs in the order they were added.
func (b *Builder) Build() []model.Job {
	out := make([]model.Job, len(b.jobs))
	copy(out, b.jobs)
	return out
}

func containerNumber(id string, i int) string {
	return fmt.Sprintf("%s-C%d", id, i+1)
}
