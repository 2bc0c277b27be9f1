// Package testutil provides test utilities for customs-triage: an isolated,
// migrated database seeded with jobs.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/Veraticus/customs-triage/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	Jobs    []model.Job
}

// SetupTestDB creates a new in-memory test database seeded with jobs.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		jobs.NewBuilder(now).
//			Detention("late", -2).
//			ETA("arriving", 1).
//			Build()...,
//	)
func SetupTestDB(t *testing.T, seed ...model.Job) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	// Run migrations
	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(seed) > 0 {
		if err := store.SaveJobs(ctx, seed); err != nil {
			t.Fatalf("failed to seed jobs: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		Jobs:    seed,
		t:       t,
	}
}

// Priorities returns the stored color priority of every job, keyed by ID.
func (db *TestDB) Priorities() map[string]*int {
	db.t.Helper()
	stored, err := db.Storage.ListJobs(context.Background(), storage.ListFilter{})
	if err != nil {
		db.t.Fatalf("failed to list jobs: %v", err)
	}
	out := make(map[string]*int, len(stored))
	for _, j := range stored {
		out[j.ID] = j.ColorPriority
	}
	return out
}
