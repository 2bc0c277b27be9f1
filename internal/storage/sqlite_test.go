package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/customs-triage/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func intPtr(i int) *int { return &i }

// Helper function to create test jobs.
func createTestJobs() []model.Job {
	return []model.Job{
		{
			ID:              "job-001",
			JobNumber:       "IMP/2025/001",
			DetailedStatus:  model.StatusEstimatedTimeOfArrival,
			ConsignmentType: model.ConsignmentFCL,
			VesselBerthing:  "2025-06-15",
		},
		{
			ID:              "job-002",
			DetailedStatus:  model.StatusBillingPending,
			ConsignmentType: model.ConsignmentLCL,
			ColorPriority:   intPtr(2),
			Containers: []model.Container{
				{ContainerNumber: "MSKU1111111", Size: "20", DeliveryDate: "2025-06-08"},
				{ContainerNumber: "MSKU2222222", Size: "40", DeliveryDate: "2025-06-01"},
			},
		},
		{
			ID:              "job-003",
			DetailedStatus:  model.StatusBeNotedClearancePending,
			ConsignmentType: model.ConsignmentFCL,
			Containers: []model.Container{
				{ContainerNumber: "TGHU3333333", Size: "40", DetentionFrom: "2025-06-17T00:00:00Z"},
			},
		},
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestNewSQLiteStorage_InMemory(t *testing.T) {
	store, err := NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate in-memory storage: %v", err)
	}
	if store.Path() != ":memory:" {
		t.Errorf("Path() = %q, want :memory:", store.Path())
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Second migration failed: %v", err)
	}

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}

	var indexCount int
	err = store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name IN ('idx_jobs_detailed_status', 'idx_jobs_color_priority', 'idx_containers_job_id')
	`).Scan(&indexCount)
	if err != nil {
		t.Fatalf("Failed to check indexes: %v", err)
	}
	if indexCount != 3 {
		t.Errorf("found %d indexes, want 3", indexCount)
	}
}

func TestMigrate_RejectsOutOfRangePriority(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveJobs(ctx, createTestJobs()[:1]); err != nil {
		t.Fatalf("Failed to save job: %v", err)
	}

	_, err := store.db.ExecContext(ctx, "UPDATE jobs SET color_priority = 5 WHERE id = 'job-001'")
	if err == nil {
		t.Fatal("expected CHECK constraint to reject color_priority 5")
	}
}
