// Package engine runs the server-side priority batch and checks stored
// priorities against the client-side computation.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/customs-triage/internal/common"
	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/Veraticus/customs-triage/internal/storage"
	"github.com/Veraticus/customs-triage/internal/urgency"
)

// PriorityBatch computes colorPriority for every stored job.
type PriorityBatch struct {
	store      Store
	classifier *urgency.Classifier
	progress   Progress
	config     Config
}

// Config holds configuration options for the priority batch.
type Config struct {
	// OnlyMissing restricts the batch to jobs without a stored priority.
	OnlyMissing bool
	// DryRun computes priorities without writing them.
	DryRun bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{}
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	ComputedAt time.Time
	RunID      string
	Summary    urgency.Summary
	Duration   time.Duration
	Processed  int
	Changed    int
	DryRun     bool
}

// New creates a priority batch with the default configuration.
func New(store Store, classifier *urgency.Classifier, progress Progress) *PriorityBatch {
	return NewWithConfig(store, classifier, progress, DefaultConfig())
}

// NewWithConfig creates a priority batch with custom configuration. A nil
// progress reports nothing.
func NewWithConfig(store Store, classifier *urgency.Classifier, progress Progress, config Config) *PriorityBatch {
	if progress == nil {
		progress = noopProgress{}
	}
	return &PriorityBatch{
		store:      store,
		classifier: classifier,
		progress:   progress,
		config:     config,
	}
}

// Run classifies the snapshot as of now with the oracle computation and
// stores the resulting tiers in a single transaction. Neutral jobs have
// their priority cleared. Nothing is written if ctx is canceled first.
func (b *PriorityBatch) Run(ctx context.Context, now time.Time) (*BatchResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := slog.With("run_id", runID)
	log.Info("Starting priority batch",
		"as_of", now.Format(time.RFC3339),
		"only_missing", b.config.OnlyMissing,
		"dry_run", b.config.DryRun)

	jobs, err := b.store.ListJobs(ctx, storage.ListFilter{WithoutPriority: b.config.OnlyMissing})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load jobs: %w", common.ErrBatchFailed, err)
	}

	result := &BatchResult{
		RunID:      runID,
		ComputedAt: now,
		DryRun:     b.config.DryRun,
	}
	if len(jobs) == 0 {
		log.Info("No jobs to prioritize")
		return result, nil
	}

	b.progress.Start(len(jobs))
	updates := make([]storage.PriorityUpdate, 0, len(jobs))
	ranked := make([]urgency.Ranked, 0, len(jobs))
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			b.progress.Finish()
			return nil, fmt.Errorf("%w: %w", common.ErrBatchFailed, ctx.Err())
		default:
		}

		c := b.classifier.Oracle(job, now)
		priority := priorityOf(c)
		if !samePriority(job.ColorPriority, priority) {
			result.Changed++
			log.Debug("Priority changed",
				"job", job.ID,
				"from", formatPriority(job.ColorPriority),
				"to", formatPriority(priority))
		}
		updates = append(updates, storage.PriorityUpdate{JobID: job.ID, Priority: priority})
		ranked = append(ranked, urgency.Ranked{Job: job, Classification: c})
		b.progress.Increment()
	}
	b.progress.Finish()

	result.Processed = len(jobs)
	result.Summary = urgency.Summarize(ranked)

	if !b.config.DryRun {
		if err := b.store.UpdateColorPriorities(ctx, updates, now); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrBatchFailed, err)
		}
	}

	result.Duration = time.Since(start)
	log.Info("Priority batch complete",
		"processed", result.Processed,
		"changed", result.Changed,
		"critical", result.Summary.Critical,
		"high", result.Summary.High,
		"elevated", result.Summary.Elevated,
		"neutral", result.Summary.Neutral,
		"duration", result.Duration)
	return result, nil
}

func priorityOf(c model.Classification) *int {
	if c.IsNeutral() {
		return nil
	}
	p := int(c.Tier)
	return &p
}

func samePriority(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func formatPriority(p *int) string {
	if p == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *p)
}
