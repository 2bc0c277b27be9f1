package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/customs-triage/internal/cli"
	"github.com/Veraticus/customs-triage/internal/common"
	"github.com/Veraticus/customs-triage/internal/engine"
)

func precomputeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "precompute",
		Short: "Store a color priority for every job",
		Long: `Run the batch that computes each stored job's color priority from the
most critical container and writes the results in one transaction. Jobs
that are not urgent have their priority cleared.`,
		RunE: runPrecompute,
	}

	addNowFlag(cmd)
	cmd.Flags().Bool("only-missing", false, "only compute jobs without a stored priority")
	cmd.Flags().Bool("dry-run", false, "compute priorities without storing them")
	cmd.Flags().Bool("clear", false, "remove every stored priority instead of computing")
	cmd.Flags().Bool("no-progress", false, "do not show a progress bar")

	return cmd
}

func runPrecompute(cmd *cobra.Command, _ []string) error {
	onlyMissing, _ := cmd.Flags().GetBool("only-missing")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	clearAll, _ := cmd.Flags().GetBool("clear")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	classifier := settings.Classifier()

	now, err := resolveNow(cmd, classifier)
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "No priorities were written. Run precompute again to finish.")

	store, err := initStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	out := cmd.OutOrStdout()
	if clearAll {
		cleared, err := store.ClearColorPriorities(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Cleared %d stored priorities", cleared)))
		return nil
	}

	var progress engine.Progress
	if !noProgress {
		progress = cli.NewProgressBar(cmd.ErrOrStderr(), "Computing priorities...")
	}

	batch := engine.NewWithConfig(store, classifier, progress, engine.Config{
		OnlyMissing: onlyMissing,
		DryRun:      dryRun,
	})
	result, err := batch.Run(ctx, now)
	if err != nil {
		if interrupts.WasInterrupted() {
			return common.NewUserError("Precompute interrupted", err)
		}
		return err
	}

	title := "Priorities stored"
	if result.DryRun {
		title = "Dry run, nothing stored"
	}
	summary := fmt.Sprintf("  • Run: %s\n", result.RunID) +
		fmt.Sprintf("  • Jobs processed: %d\n", result.Processed) +
		fmt.Sprintf("  • Priorities changed: %d\n", result.Changed) +
		fmt.Sprintf("  • As of: %s\n", result.ComputedAt.Format(time.RFC3339)) +
		fmt.Sprintf("  • Time taken: %s\n", result.Duration.Round(time.Millisecond)) +
		cli.RenderSummary(result.Summary)
	fmt.Fprintln(out, cli.RenderBox(title, summary))
	return nil
}
