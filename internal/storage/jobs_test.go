package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
)

func TestSaveJobs_RoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	jobs := createTestJobs()
	if err := store.SaveJobs(ctx, jobs); err != nil {
		t.Fatalf("Failed to save jobs: %v", err)
	}

	got, err := store.ListJobs(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("Failed to list jobs: %v", err)
	}
	if !reflect.DeepEqual(got, jobs) {
		t.Errorf("ListJobs() = %+v, want %+v", got, jobs)
	}

	count, err := store.CountJobs(ctx)
	if err != nil {
		t.Fatalf("Failed to count jobs: %v", err)
	}
	if count != len(jobs) {
		t.Errorf("CountJobs() = %d, want %d", count, len(jobs))
	}
}

func TestSaveJobs_ReplacesSnapshot(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	jobs := createTestJobs()
	if err := store.SaveJobs(ctx, jobs); err != nil {
		t.Fatalf("Failed to save jobs: %v", err)
	}

	updated := jobs[1]
	updated.DetailedStatus = model.StatusCustomClearanceCompleted
	updated.ColorPriority = nil
	updated.Containers = []model.Container{{ContainerNumber: "NEW0000001", DetentionFrom: "2025-06-20"}}
	if err := store.SaveJobs(ctx, []model.Job{updated}); err != nil {
		t.Fatalf("Failed to resave job: %v", err)
	}

	got, err := store.GetJob(ctx, updated.ID)
	if err != nil {
		t.Fatalf("Failed to get job: %v", err)
	}
	if !reflect.DeepEqual(*got, updated) {
		t.Errorf("GetJob() = %+v, want %+v", *got, updated)
	}

	var containerCount int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM containers WHERE job_id = ?", updated.ID).Scan(&containerCount); err != nil {
		t.Fatalf("Failed to count containers: %v", err)
	}
	if containerCount != 1 {
		t.Errorf("job has %d containers after resave, want 1", containerCount)
	}
}

func TestSaveJobs_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		wantErr error
		name    string
		jobs    []model.Job
	}{
		{name: "no jobs", jobs: nil, wantErr: ErrEmptySlice},
		{name: "missing id", jobs: []model.Job{{DetailedStatus: model.StatusBillingPending}}, wantErr: ErrInvalidJob},
		{name: "missing status", jobs: []model.Job{{ID: "x"}}, wantErr: ErrInvalidJob},
		{name: "bad consignment", jobs: []model.Job{{ID: "x", DetailedStatus: model.StatusBillingPending, ConsignmentType: "BULK"}}, wantErr: ErrInvalidJob},
		{
			name: "duplicate id",
			jobs: []model.Job{
				{ID: "x", DetailedStatus: model.StatusBillingPending},
				{ID: "x", DetailedStatus: model.StatusBillingPending},
			},
			wantErr: ErrInvalidJob,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveJobs(ctx, tt.jobs)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SaveJobs() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	count, err := store.CountJobs(ctx)
	if err != nil {
		t.Fatalf("Failed to count jobs: %v", err)
	}
	if count != 0 {
		t.Errorf("invalid batches stored %d jobs", count)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetJob(context.Background(), "missing")
	if !errors.Is(err, ErrJobNotFound) {
		t.Errorf("GetJob() error = %v, want ErrJobNotFound", err)
	}
}

func TestListJobs_Filters(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveJobs(ctx, createTestJobs()); err != nil {
		t.Fatalf("Failed to save jobs: %v", err)
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{name: "all", filter: ListFilter{}, want: []string{"job-001", "job-002", "job-003"}},
		{
			name:   "by status",
			filter: ListFilter{Statuses: []model.DetailedStatus{model.StatusBillingPending, model.StatusBeNotedClearancePending}},
			want:   []string{"job-002", "job-003"},
		},
		{name: "without priority", filter: ListFilter{WithoutPriority: true}, want: []string{"job-001", "job-003"}},
		{
			name:   "combined",
			filter: ListFilter{Statuses: []model.DetailedStatus{model.StatusBillingPending}, WithoutPriority: true},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := store.ListJobs(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListJobs() error = %v", err)
			}
			var ids []string
			for _, j := range jobs {
				ids = append(ids, j.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("ListJobs() ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestListJobs_ManyJobsPageContainers(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	jobs := make([]model.Job, 1203)
	for i := range jobs {
		jobs[i] = model.Job{
			ID:             fmt.Sprintf("job-%05d", i),
			DetailedStatus: model.StatusPcvDoneDutyPaymentPending,
			Containers: []model.Container{
				{ContainerNumber: fmt.Sprintf("C%05d-A", i), DetentionFrom: "2025-06-16"},
				{ContainerNumber: fmt.Sprintf("C%05d-B", i), DetentionFrom: "2025-06-18"},
			},
		}
	}
	if err := store.SaveJobs(ctx, jobs); err != nil {
		t.Fatalf("Failed to save jobs: %v", err)
	}

	got, err := store.ListJobs(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(got) != len(jobs) {
		t.Fatalf("ListJobs() returned %d jobs, want %d", len(got), len(jobs))
	}
	for i, job := range got {
		if len(job.Containers) != 2 || job.Containers[0].ContainerNumber != jobs[i].Containers[0].ContainerNumber {
			t.Fatalf("job %s has containers %+v", job.ID, job.Containers)
		}
	}
}

func TestUpdateColorPriorities(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveJobs(ctx, createTestJobs()); err != nil {
		t.Fatalf("Failed to save jobs: %v", err)
	}

	computedAt := time.Date(2025, 6, 15, 2, 0, 0, 0, time.UTC)
	updates := []PriorityUpdate{
		{JobID: "job-001", Priority: intPtr(1)},
		{JobID: "job-002", Priority: nil},
		{JobID: "job-003", Priority: intPtr(3)},
	}
	if err := store.UpdateColorPriorities(ctx, updates, computedAt); err != nil {
		t.Fatalf("UpdateColorPriorities() error = %v", err)
	}

	want := map[string]*int{"job-001": intPtr(1), "job-002": nil, "job-003": intPtr(3)}
	for id, wantPriority := range want {
		job, err := store.GetJob(ctx, id)
		if err != nil {
			t.Fatalf("GetJob(%s) error = %v", id, err)
		}
		if !reflect.DeepEqual(job.ColorPriority, wantPriority) {
			t.Errorf("job %s priority = %v, want %v", id, job.ColorPriority, wantPriority)
		}
	}

	var stamped int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM jobs WHERE priority_computed_at IS NOT NULL").Scan(&stamped); err != nil {
		t.Fatalf("Failed to count stamped jobs: %v", err)
	}
	if stamped != 3 {
		t.Errorf("%d jobs stamped, want 3", stamped)
	}
}

func TestUpdateColorPriorities_Errors(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveJobs(ctx, createTestJobs()); err != nil {
		t.Fatalf("Failed to save jobs: %v", err)
	}

	err := store.UpdateColorPriorities(ctx, []PriorityUpdate{{JobID: "job-001", Priority: intPtr(4)}}, time.Now())
	if !errors.Is(err, ErrInvalidUpdate) {
		t.Errorf("out of range priority error = %v, want ErrInvalidUpdate", err)
	}

	err = store.UpdateColorPriorities(ctx, []PriorityUpdate{{JobID: " "}}, time.Now())
	if !errors.Is(err, ErrInvalidUpdate) {
		t.Errorf("blank job ID error = %v, want ErrInvalidUpdate", err)
	}

	// An unknown job rolls back the whole batch.
	err = store.UpdateColorPriorities(ctx, []PriorityUpdate{
		{JobID: "job-001", Priority: intPtr(1)},
		{JobID: "job-999", Priority: intPtr(1)},
	}, time.Now())
	if !errors.Is(err, ErrJobNotFound) {
		t.Errorf("unknown job error = %v, want ErrJobNotFound", err)
	}
	job, err := store.GetJob(ctx, "job-001")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if job.ColorPriority != nil {
		t.Errorf("job-001 priority = %d after rolled back batch, want nil", *job.ColorPriority)
	}

	if err := store.UpdateColorPriorities(ctx, nil, time.Now()); err != nil {
		t.Errorf("empty batch error = %v", err)
	}
}

func TestClearColorPriorities(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveJobs(ctx, createTestJobs()); err != nil {
		t.Fatalf("Failed to save jobs: %v", err)
	}

	cleared, err := store.ClearColorPriorities(ctx)
	if err != nil {
		t.Fatalf("ClearColorPriorities() error = %v", err)
	}
	if cleared != 1 {
		t.Errorf("cleared %d priorities, want 1", cleared)
	}

	jobs, err := store.ListJobs(ctx, ListFilter{WithoutPriority: true})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(jobs) != 3 {
		t.Errorf("%d jobs without priority, want 3", len(jobs))
	}
}
