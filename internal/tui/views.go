package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/customs-triage/internal/cli"
	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/Veraticus/customs-triage/internal/urgency"
)

// View renders the browser.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	switch {
	case m.lastError != nil:
		sections = append(sections, m.theme.StatusError.Render("Failed to load jobs: "+m.lastError.Error()))
	case m.loading && m.ranked == nil:
		sections = append(sections, m.theme.Muted.Render("Loading jobs..."))
	case len(m.ranked) == 0:
		sections = append(sections, m.theme.Muted.Render("No jobs"))
	default:
		sections = append(sections, m.renderList(), m.renderDetail())
	}
	sections = append(sections, m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Jobs, most urgent first")
	if m.asOf.IsZero() {
		return title
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.theme.Subtitle.Render("as of "+m.asOf.Format("2006-01-02 15:04 MST")),
		cli.RenderSummary(m.summary),
		"",
	)
}

func (m Model) renderList() string {
	end := min(m.offset+m.listHeight(), len(m.ranked))
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		r := m.ranked[i]
		badge := cli.ClassificationStyle(r.Classification).Width(3).Render(r.Classification.Tier.String())
		text := fmt.Sprintf("%-18s %-28s %s", r.Job.DisplayName(), r.Job.DetailedStatus, r.Job.ConsignmentType)

		style := m.theme.Normal
		marker := "  "
		if i == m.cursor {
			style = m.theme.Selected
			marker = "› "
		}
		lines = append(lines, marker+badge+" "+style.Render(text))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetail() string {
	r, ok := m.Selected()
	if !ok {
		return ""
	}
	job := r.Job

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", m.theme.Bold.Render(job.DisplayName()), m.theme.Muted.Render(job.ID))
	fmt.Fprintf(&b, "Status: %s   Type: %s\n", job.DetailedStatus, valueOr(string(job.ConsignmentType), "-"))
	if job.ColorPriority != nil {
		fmt.Fprintf(&b, "Stored priority: %d\n", *job.ColorPriority)
	}

	variant, hasRule := urgency.VariantFor(job, m.classifier.Strategy())
	if !hasRule {
		b.WriteString(m.theme.Muted.Render("No rule applies to this status"))
		return m.theme.BorderedBox.Render(b.String())
	}

	asOf := m.asOf.In(m.classifier.Location())
	mode := m.classifier.Table().Rounding(variant)
	if variant == model.VariantETA {
		fmt.Fprintf(&b, "Vessel berthing: %s", describeDate(job.VesselBerthing, asOf, mode))
		return m.theme.BorderedBox.Render(b.String())
	}

	selector, _ := urgency.SelectorFor(job, variant)
	if len(job.Containers) == 0 {
		b.WriteString(m.theme.Muted.Render("No containers"))
	}
	for i, c := range job.Containers {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%-14s %-4s %s", valueOr(c.ContainerNumber, "?"), valueOr(c.Size, "-"), describeDate(selector(c), asOf, mode))
	}
	return m.theme.BorderedBox.Render(b.String())
}

func describeDate(raw string, asOf time.Time, mode model.Rounding) string {
	if raw == "" {
		return "no date"
	}
	days, ok := urgency.DaysUntil(raw, asOf, mode)
	if !ok {
		return raw + " (unreadable)"
	}
	return fmt.Sprintf("%s (%+d days)", raw, days)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
