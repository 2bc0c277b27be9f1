package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
)

// ListFilter narrows ListJobs. The zero value lists every job.
type ListFilter struct {
	Statuses        []model.DetailedStatus
	WithoutPriority bool
}

// PriorityUpdate sets (or clears, when Priority is nil) a job's
// precomputed color priority.
type PriorityUpdate struct {
	Priority *int
	JobID    string
}

// SaveJobs inserts or replaces the given jobs and their containers in one
// transaction. Container order is preserved.
func (s *SQLiteStorage) SaveJobs(ctx context.Context, jobs []model.Job) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateJobs(jobs); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	jobStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO jobs (id, job_number, detailed_status, consignment_type, vessel_berthing, color_priority, priority_computed_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL)
		ON CONFLICT(id) DO UPDATE SET
			job_number = excluded.job_number,
			detailed_status = excluded.detailed_status,
			consignment_type = excluded.consignment_type,
			vessel_berthing = excluded.vessel_berthing,
			color_priority = excluded.color_priority,
			priority_computed_at = NULL,
			imported_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare job statement: %w", err)
	}
	defer func() { _ = jobStmt.Close() }()

	containerStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO containers (job_id, position, container_number, size, delivery_date, empty_container_off_load_date, detention_from)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare container statement: %w", err)
	}
	defer func() { _ = containerStmt.Close() }()

	for _, job := range jobs {
		if _, err := jobStmt.ExecContext(ctx,
			job.ID, job.JobNumber, string(job.DetailedStatus), string(job.ConsignmentType),
			job.VesselBerthing, nullableInt(job.ColorPriority),
		); err != nil {
			return fmt.Errorf("failed to save job %s: %w", job.ID, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM containers WHERE job_id = ?", job.ID); err != nil {
			return fmt.Errorf("failed to clear containers for job %s: %w", job.ID, err)
		}

		for i, c := range job.Containers {
			if _, err := containerStmt.ExecContext(ctx,
				job.ID, i, c.ContainerNumber, c.Size,
				c.DeliveryDate, c.EmptyContainerOffLoadDate, c.DetentionFrom,
			); err != nil {
				return fmt.Errorf("failed to save container %d of job %s: %w", i, job.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit jobs: %w", err)
	}
	return nil
}

// GetJob returns a single job with its containers.
func (s *SQLiteStorage) GetJob(ctx context.Context, id string) (*model.Job, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, job_number, detailed_status, consignment_type, vessel_berthing, color_priority
		FROM jobs
		WHERE id = ?
	`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	containers, err := s.loadContainers(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	job.Containers = containers[id]
	return &job, nil
}

// ListJobs returns the jobs matching filter ordered by ID.
func (s *SQLiteStorage) ListJobs(ctx context.Context, filter ListFilter) ([]model.Job, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, job_number, detailed_status, consignment_type, vessel_berthing, color_priority
		FROM jobs`
	var (
		where []string
		args  []any
	)
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		where = append(where, "detailed_status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if filter.WithoutPriority {
		where = append(where, "color_priority IS NULL")
	}
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		jobs []model.Job
		ids  []string
	)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
		ids = append(ids, job.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}
	// Release the connection before loading containers.
	_ = rows.Close()

	containers, err := s.loadContainers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		jobs[i].Containers = containers[jobs[i].ID]
	}
	return jobs, nil
}

// CountJobs returns the number of stored jobs.
func (s *SQLiteStorage) CountJobs(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

// UpdateColorPriorities writes the batch results in one transaction and
// stamps each row with computedAt.
func (s *SQLiteStorage) UpdateColorPriorities(ctx context.Context, updates []PriorityUpdate, computedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateUpdates(updates); err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE jobs SET color_priority = ?, priority_computed_at = ?
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare priority update: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, u := range updates {
		result, err := stmt.ExecContext(ctx, nullableInt(u.Priority), computedAt.UTC(), u.JobID)
		if err != nil {
			return fmt.Errorf("failed to update priority of job %s: %w", u.JobID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update of job %s: %w", u.JobID, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: %s", ErrJobNotFound, u.JobID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit priorities: %w", err)
	}
	return nil
}

// ClearColorPriorities removes every precomputed priority and returns the
// number of jobs that had one.
func (s *SQLiteStorage) ClearColorPriorities(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET color_priority = NULL, priority_computed_at = NULL
		WHERE color_priority IS NOT NULL
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear priorities: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cleared priorities: %w", err)
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (model.Job, error) {
	var (
		job         model.Job
		status      string
		consignment string
		priority    sql.NullInt64
	)
	if err := row.Scan(&job.ID, &job.JobNumber, &status, &consignment, &job.VesselBerthing, &priority); err != nil {
		return model.Job{}, err
	}
	job.DetailedStatus = model.DetailedStatus(status)
	job.ConsignmentType = model.ConsignmentType(consignment)
	if priority.Valid {
		p := int(priority.Int64)
		job.ColorPriority = &p
	}
	return job, nil
}

// loadContainers returns the containers of the given jobs keyed by job ID,
// in their original order.
func (s *SQLiteStorage) loadContainers(ctx context.Context, jobIDs []string) (map[string][]model.Container, error) {
	result := make(map[string][]model.Container, len(jobIDs))
	if len(jobIDs) == 0 {
		return result, nil
	}

	// SQLite caps host parameters; page through large listings.
	const pageSize = 500
	for start := 0; start < len(jobIDs); start += pageSize {
		end := min(start+pageSize, len(jobIDs))
		page := jobIDs[start:end]

		placeholders := make([]string, len(page))
		args := make([]any, len(page))
		for i, id := range page {
			placeholders[i] = "?"
			args[i] = id
		}

		rows, err := s.db.QueryContext(ctx, `
			SELECT job_id, container_number, size, delivery_date, empty_container_off_load_date, detention_from
			FROM containers
			WHERE job_id IN (`+strings.Join(placeholders, ", ")+`)
			ORDER BY job_id, position`, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to load containers: %w", err)
		}

		for rows.Next() {
			var (
				jobID string
				c     model.Container
			)
			if err := rows.Scan(&jobID, &c.ContainerNumber, &c.Size, &c.DeliveryDate, &c.EmptyContainerOffLoadDate, &c.DetentionFrom); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan container: %w", err)
			}
			result[jobID] = append(result[jobID], c)
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("error iterating containers: %w", err)
		}
		_ = rows.Close()
	}
	return result, nil
}

func nullableInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}
