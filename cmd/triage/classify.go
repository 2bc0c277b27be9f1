package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/customs-triage/internal/cli"
	"github.com/Veraticus/customs-triage/internal/urgency"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify jobs in listing order",
		Long: `Classify every job and print its tier and colors in the order the jobs
were listed. A stored color priority wins; other jobs are classified from
their dates with the configured strategy.`,
		Example: `  triage classify --file jobs.json
  curl -s $API/jobs | triage classify -f - -o json --now 2025-06-15`,
		RunE: runClassify,
	}

	addFileFlag(cmd)
	addJobFlag(cmd)
	addNowFlag(cmd)
	addFormatFlag(cmd)
	cmd.Flags().Bool("oracle", false, "ignore stored priorities and use the batch computation")

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	return classifyAndPrint(cmd, false)
}

func rankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "List jobs most urgent first",
		Long: `Classify every job and list them most urgent first, with a per-tier
summary. Jobs of equal urgency keep their listing order.`,
		RunE: runRank,
	}

	addFileFlag(cmd)
	addJobFlag(cmd)
	addNowFlag(cmd)
	addFormatFlag(cmd)
	cmd.Flags().Bool("oracle", false, "ignore stored priorities and use the batch computation")
	cmd.Flags().Int("limit", 0, "show at most this many jobs (0 for all)")

	return cmd
}

func runRank(cmd *cobra.Command, _ []string) error {
	return classifyAndPrint(cmd, true)
}

func classifyAndPrint(cmd *cobra.Command, rank bool) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	classifier := settings.Classifier()

	now, err := resolveNow(cmd, classifier)
	if err != nil {
		return err
	}

	jobs, err := loadJobs(cmd, settings)
	if err != nil {
		return err
	}

	oracle, _ := cmd.Flags().GetBool("oracle")
	ranked := make([]urgency.Ranked, len(jobs))
	for i, job := range jobs {
		c := classifier.Classify(job, now)
		if oracle {
			c = classifier.Oracle(job, now)
		}
		ranked[i] = urgency.Ranked{Job: job, Classification: c}
	}
	summary := urgency.Summarize(ranked)
	if rank {
		ranked = urgency.SortRanked(ranked)
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && limit < len(ranked) {
			ranked = ranked[:limit]
		}
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		return writeJSON(out, toClassified(ranked))
	}

	if len(ranked) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("No jobs"))
		return nil
	}
	fmt.Fprintln(out, cli.RenderJobTable(ranked))
	if rank {
		fmt.Fprintln(out, cli.RenderSummary(summary))
	}
	return nil
}
