package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Veraticus/customs-triage/internal/engine"
	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/Veraticus/customs-triage/internal/urgency"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle.PaddingRight(1).PaddingLeft(1)
			}
			return TableCellStyle.PaddingLeft(1).PaddingRight(1)
		})
}

// RenderJobTable renders ranked jobs with their tier rendered in the
// classification's colors.
func RenderJobTable(ranked []urgency.Ranked) string {
	t := newTable("Tier", "Job", "Status", "Type", "Containers")
	for _, r := range ranked {
		t.Row(
			ClassificationStyle(r.Classification).Render(r.Classification.Tier.String()),
			r.Job.DisplayName(),
			string(r.Job.DetailedStatus),
			string(r.Job.ConsignmentType),
			fmt.Sprintf("%d", len(r.Job.Containers)),
		)
	}
	return t.Render()
}

// RenderSummary renders per-tier counts on one line.
func RenderSummary(s urgency.Summary) string {
	parts := []string{
		ClassificationStyle(model.Classification{BackgroundColor: "red", TextColor: "white"}).Render(fmt.Sprintf("critical %d", s.Critical)),
		ClassificationStyle(model.Classification{BackgroundColor: "orange", TextColor: "black"}).Render(fmt.Sprintf("high %d", s.High)),
		ClassificationStyle(model.Classification{BackgroundColor: "yellow", TextColor: "black"}).Render(fmt.Sprintf("elevated %d", s.Elevated)),
		SubtleStyle.Render(fmt.Sprintf("neutral %d", s.Neutral)),
	}
	return fmt.Sprintf("%s %s jobs: %s", ChartIcon, BoldStyle.Render(fmt.Sprintf("%d", s.Total())), strings.Join(parts, " "))
}

// RenderRuleTable renders every rule window, one row per window, with a
// sample cell in the window's colors.
func RenderRuleTable(rules urgency.RuleTable) string {
	t := newTable("Variant", "Rounding", "Days", "Tier", "Colors")
	for _, v := range model.RuleVariants {
		rule, ok := rules[v]
		if !ok {
			continue
		}
		for _, w := range rule.Windows {
			c := w.Classification()
			t.Row(
				string(v),
				string(rule.Rounding),
				formatWindow(w),
				c.Tier.String(),
				ClassificationStyle(c).Render(c.BackgroundColor+"/"+c.TextColor),
			)
		}
	}
	return t.Render()
}

func formatWindow(w model.RuleWindow) string {
	switch {
	case w.Min == nil && w.Max == nil:
		return "any"
	case w.Min == nil:
		return fmt.Sprintf("<= %d", *w.Max)
	case w.Max == nil:
		return fmt.Sprintf(">= %d", *w.Min)
	case *w.Min == *w.Max:
		return fmt.Sprintf("%d", *w.Min)
	}
	return fmt.Sprintf("%d..%d", *w.Min, *w.Max)
}

// RenderReconciliation renders a verification report: outcome counts and
// a table of the jobs that do not agree.
func RenderReconciliation(report *engine.Report) string {
	outcomes := make([]string, 0, len(report.Counts))
	for o := range report.Counts {
		outcomes = append(outcomes, string(o))
	}
	sort.Strings(outcomes)

	var counts strings.Builder
	for _, o := range outcomes {
		fmt.Fprintf(&counts, "  • %s: %d\n", o, report.Counts[urgency.Outcome(o)])
	}

	var b strings.Builder
	b.WriteString(RenderBox(fmt.Sprintf("Checked %d jobs", report.Total()), strings.TrimRight(counts.String(), "\n")))
	b.WriteString("\n")

	mismatches := report.Mismatches()
	if len(mismatches) == 0 {
		b.WriteString(FormatSuccess("Every stored priority matches the computed one"))
		b.WriteString("\n")
		return b.String()
	}

	t := newTable("Job", "Outcome", "Stored", "Computed")
	for _, m := range mismatches {
		t.Row(
			m.JobID,
			ErrorStyle.Render(string(m.Outcome)),
			m.Precomputed.String(),
			ClassificationStyle(m.Oracle).Render(m.Oracle.Tier.String()),
		)
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(FormatWarning(fmt.Sprintf("%d of %d jobs need attention", len(mismatches), report.Total())))
	b.WriteString("\n")
	return b.String()
}
