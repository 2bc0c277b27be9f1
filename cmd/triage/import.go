package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/customs-triage/internal/cli"
	"github.com/Veraticus/customs-triage/internal/common"
	"github.com/Veraticus/customs-triage/internal/jobfile"
	"github.com/Veraticus/customs-triage/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Load job listings into the database",
		Long: `Store the jobs from one or more JSON listings ("-" reads stdin).
Jobs already stored are replaced, containers included.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	var jobs []model.Job
	for _, path := range args {
		listing, err := jobfile.ReadFile(path, cmd.InOrStdin())
		if err != nil {
			return common.NewUserError("Could not read the job listing", fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		}
		slog.Debug("Read job listing", "path", path, "jobs", len(listing))
		jobs = append(jobs, listing...)
	}
	if len(jobs) == 0 {
		return common.NewUserError("The listings contain no jobs", common.ErrNoJobs)
	}

	store, err := initStorage(cmd.Context(), settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveJobs(cmd.Context(), jobs); err != nil {
		return fmt.Errorf("failed to save jobs: %w", err)
	}

	total, err := store.CountJobs(cmd.Context())
	if err != nil {
		return err
	}
	slog.Info("Imported jobs", "imported", len(jobs), "total", total, "database", store.Path())
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d jobs (%d stored)", len(jobs), total)))
	if n := countUnruled(jobs); n > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("%d jobs have a status without a rule and stay neutral", n)))
	}
	return nil
}

func countUnruled(jobs []model.Job) int {
	n := 0
	for _, job := range jobs {
		if !job.DetailedStatus.IsKnown() {
			n++
		}
	}
	return n
}
