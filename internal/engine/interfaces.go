package engine

import (
	"context"
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/Veraticus/customs-triage/internal/storage"
)

// JobLister defines the contract for reading the job snapshot.
type JobLister interface {
	ListJobs(ctx context.Context, filter storage.ListFilter) ([]model.Job, error)
}

// Store defines the contract the priority batch needs from storage.
type Store interface {
	JobLister
	UpdateColorPriorities(ctx context.Context, updates []storage.PriorityUpdate, computedAt time.Time) error
}

// Progress receives batch progress. Implementations must tolerate
// Increment being called exactly total times between Start and Finish.
type Progress interface {
	Start(total int)
	Increment()
	Finish()
}

type noopProgress struct{}

func (noopProgress) Start(int)  {}
func (noopProgress) Increment() {}
func (noopProgress) Finish()    {}
