package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/customs-triage/internal/cli"
	"github.com/Veraticus/customs-triage/internal/common"
	"github.com/Veraticus/customs-triage/internal/engine"
)

// errMismatch is returned by verify --strict when a priority disagrees.
var errMismatch = errors.New("stored priorities do not match")

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check stored priorities against a fresh computation",
		Long: `Recompute every job's tier from its dates, always using the most
critical container, and compare it with the stored color priority.

Outcomes:
  agree         stored and computed tiers match
  disagree      both exist but differ
  missing       the job is urgent but has no stored priority
  unclassified  a priority is stored but the job is no longer urgent`,
		RunE: runVerify,
	}

	addFileFlag(cmd)
	addNowFlag(cmd)
	addFormatFlag(cmd)
	cmd.Flags().Bool("strict", false, "exit with an error when any job does not agree")

	return cmd
}

func runVerify(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	strict, _ := cmd.Flags().GetBool("strict")

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	classifier := settings.Classifier()

	now, err := resolveNow(cmd, classifier)
	if err != nil {
		return err
	}

	var report *engine.Report
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		jobs, err := loadJobs(cmd, settings)
		if err != nil {
			return err
		}
		report = engine.VerifyJobs(classifier, jobs, now)
	} else {
		store, err := initStorage(cmd.Context(), settings)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		report, err = engine.NewVerifier(store, classifier).Verify(cmd.Context(), now)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, cli.RenderReconciliation(report))
	}

	if strict && !report.OK() {
		return common.NewUserError(fmt.Sprintf("%d of %d jobs do not match", len(report.Mismatches()), report.Total()), errMismatch)
	}
	return nil
}
