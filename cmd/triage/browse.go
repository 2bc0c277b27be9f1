package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Veraticus/customs-triage/internal/common"
	"github.com/Veraticus/customs-triage/internal/jobfile"
	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/Veraticus/customs-triage/internal/storage"
	"github.com/Veraticus/customs-triage/internal/tui"
	"github.com/Veraticus/customs-triage/internal/tui/themes"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse jobs most urgent first",
		Long: `Open an interactive list of jobs ordered by urgency. Press r to
reclassify against the current time, ? for help and q to quit.`,
		RunE: runBrowse,
	}

	cmd.Flags().StringP("file", "f", "", "job listing JSON file; defaults to the database")
	cmd.Flags().Bool("plain", false, "use a theme without colors")
	cmd.Flags().Bool("keys", false, "start with the full key help shown")

	return cmd
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("file")
	plain, _ := cmd.Flags().GetBool("plain")
	keys, _ := cmd.Flags().GetBool("keys")

	// The browser owns the terminal, so stdin cannot carry a listing.
	if file == jobfile.Stdin {
		return common.NewUserError("browse cannot read the job listing from stdin; pass a file path", common.ErrInvalidInput)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	var source tui.JobSource
	if file != "" {
		// Reread on every refresh so edits to the file show up.
		source = func(context.Context) ([]model.Job, error) {
			return jobfile.ReadFile(file, nil)
		}
	} else {
		store, err := initStorage(cmd.Context(), settings)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		source = func(ctx context.Context) ([]model.Job, error) {
			return store.ListJobs(ctx, storage.ListFilter{})
		}
	}

	opts := []tui.Option{
		tui.WithSource(source),
		tui.WithClassifier(settings.Classifier()),
		tui.WithHelp(keys),
	}
	if plain {
		opts = append(opts, tui.WithTheme(themes.Plain))
	}
	return tui.Run(cmd.Context(), opts...)
}
