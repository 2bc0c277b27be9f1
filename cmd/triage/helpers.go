package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/customs-triage/internal/common"
	"github.com/Veraticus/customs-triage/internal/config"
	"github.com/Veraticus/customs-triage/internal/jobfile"
	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/Veraticus/customs-triage/internal/storage"
	"github.com/Veraticus/customs-triage/internal/urgency"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// loadSettings resolves settings from the global viper instance.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Invalid configuration", err)
	}
	slog.Debug("Loaded settings",
		"database", settings.DatabasePath,
		"strategy", settings.Strategy,
		"timezone", settings.Location.String())
	return settings, nil
}

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadJobs reads jobs from --file when given, otherwise from the database.
// --job narrows the result to the named job IDs, in the order given.
func loadJobs(cmd *cobra.Command, settings *config.Settings) ([]model.Job, error) {
	ids, _ := cmd.Flags().GetStringSlice("job")

	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		jobs, err := jobfile.ReadFile(file, cmd.InOrStdin())
		if err != nil {
			return nil, common.NewUserError("Could not read the job listing", fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		}
		if len(ids) == 0 {
			return jobs, nil
		}
		return selectJobs(jobs, ids)
	}

	store, err := initStorage(cmd.Context(), settings)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	if len(ids) == 0 {
		return store.ListJobs(cmd.Context(), storage.ListFilter{})
	}

	jobs := make([]model.Job, 0, len(ids))
	for _, id := range ids {
		job, err := store.GetJob(cmd.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrJobNotFound) {
				return nil, common.NewUserError(fmt.Sprintf("No job %q in the database", id), err)
			}
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

func selectJobs(jobs []model.Job, ids []string) ([]model.Job, error) {
	byID := make(map[string]model.Job, len(jobs))
	for _, job := range jobs {
		byID[job.ID] = job
	}
	selected := make([]model.Job, 0, len(ids))
	for _, id := range ids {
		job, ok := byID[id]
		if !ok {
			return nil, common.NewUserError(fmt.Sprintf("No job %q in the listing", id), common.ErrInvalidInput)
		}
		selected = append(selected, job)
	}
	return selected, nil
}

func addFileFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", `job listing JSON file ("-" for stdin); defaults to the database`)
}

func addJobFlag(cmd *cobra.Command) {
	cmd.Flags().StringSlice("job", nil, "only these job IDs (repeatable or comma separated)")
}

func addNowFlag(cmd *cobra.Command) {
	cmd.Flags().String("now", "", "classify as of this time (RFC 3339 or YYYY-MM-DD; default: current time)")
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "o", formatTable, "output format (table, json)")
}

// resolveNow reads --now in the classifier's time zone.
func resolveNow(cmd *cobra.Command, classifier *urgency.Classifier) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("now")
	if raw == "" {
		return time.Now(), nil
	}
	now, ok := urgency.ParseDate(raw, classifier.Location())
	if !ok {
		return time.Time{}, common.NewUserError(fmt.Sprintf("Invalid --now value %q", raw), common.ErrInvalidInput)
	}
	return now, nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatTable, formatJSON:
		return format, nil
	}
	return "", common.NewUserError(fmt.Sprintf("Unknown output format %q (want table or json)", format), common.ErrInvalidInput)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// classifiedJob is the JSON shape of a classified job.
type classifiedJob struct {
	ID             string               `json:"id"`
	JobNumber      string               `json:"jobNumber,omitempty"`
	DetailedStatus model.DetailedStatus `json:"detailedStatus"`
	model.Classification
}

func toClassified(ranked []urgency.Ranked) []classifiedJob {
	out := make([]classifiedJob, len(ranked))
	for i, r := range ranked {
		out[i] = classifiedJob{
			ID:             r.Job.ID,
			JobNumber:      r.Job.JobNumber,
			DetailedStatus: r.Job.DetailedStatus,
			Classification: r.Classification,
		}
	}
	return out
}
