package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/customs-triage/internal/cli"
	"github.com/Veraticus/customs-triage/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the classification thresholds in effect",
		Long: `Print every rule window with its day range, tier and colors, after
configuration overrides have been applied.`,
		RunE: runRules,
	}

	addFormatFlag(cmd)

	return cmd
}

func runRules(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		rules := make([]model.Rule, 0, len(settings.Rules))
		for _, v := range model.RuleVariants {
			if rule, ok := settings.Rules[v]; ok {
				rule.Variant = v
				rules = append(rules, rule)
			}
		}
		return writeJSON(out, rules)
	}

	fmt.Fprintln(out, cli.FormatTitle("Classification rules"))
	fmt.Fprintln(out, cli.RenderRuleTable(settings.Rules))
	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("strategy: %s   timezone: %s", settings.Strategy, settings.Location)))
	return nil
}
