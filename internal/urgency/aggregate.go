package urgency

import (
	"fmt"
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
)

// DateSelector picks the date a rule inspects on a container.
type DateSelector func(model.Container) string

// DetentionFrom selects the detention start date.
func DetentionFrom(c model.Container) string {
	return c.DetentionFrom
}

// BillingTarget selects the billing milestone for the consignment type:
// the delivery date for LCL, the empty container off-load date otherwise.
func BillingTarget(consignment model.ConsignmentType) DateSelector {
	if consignment == model.ConsignmentLCL {
		return func(c model.Container) string { return c.DeliveryDate }
	}
	return func(c model.Container) string { return c.EmptyContainerOffLoadDate }
}

// SelectorFor returns the container date a per-container variant inspects
// on job. The bool is false for variants that do not read containers.
func SelectorFor(job model.Job, variant model.RuleVariant) (DateSelector, bool) {
	switch variant {
	case model.VariantBillingPendingPerContainer, model.VariantBillingPendingAggregated:
		return BillingTarget(job.ConsignmentType), true
	case model.VariantDetentionPerContainer:
		return DetentionFrom, true
	}
	return nil, false
}

// MostCritical returns the smallest day delta among the containers with a
// usable date, i.e. the most overdue container. The bool is false when no
// container has a usable date.
func MostCritical(containers []model.Container, selector DateSelector, now time.Time, mode model.Rounding) (int, bool) {
	var (
		worst int
		found bool
	)
	for _, c := range containers {
		delta, ok := DaysUntil(selector(c), now, mode)
		if !ok {
			continue
		}
		if !found || delta < worst {
			worst = delta
			found = true
		}
	}
	return worst, found
}

// Strategy decides how per-container deltas collapse into one
// classification for the job.
type Strategy string

// Container strategies. They are not interchangeable: with containers
// ordered +1 then +3 days, LastWins reports the +3 container and
// MostCritical the +1 container.
const (
	// StrategyLastWins walks containers in list order and lets the last
	// container with a usable date decide, whatever its severity.
	StrategyLastWins Strategy = "last-wins"
	// StrategyMostCritical classifies once from the most overdue container.
	StrategyMostCritical Strategy = "most-critical"
)

// ParseStrategy converts a configuration value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyLastWins, StrategyMostCritical:
		return Strategy(s), nil
	case "iterate-and-overwrite":
		return StrategyLastWins, nil
	case "most-critical-wins":
		return StrategyMostCritical, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want %s or %s)", s, StrategyLastWins, StrategyMostCritical)
}

// lastWins recomputes the classification for every container with a usable
// date; each one overwrites the previous result, including with neutral.
func lastWins(table RuleTable, variant model.RuleVariant, containers []model.Container, selector DateSelector, now time.Time) model.Classification {
	result := model.Neutral()
	mode := table.Rounding(variant)
	for _, c := range containers {
		delta, ok := DaysUntil(selector(c), now, mode)
		if !ok {
			continue
		}
		result = table.Lookup(variant, delta)
	}
	return result
}

func mostCritical(table RuleTable, variant model.RuleVariant, containers []model.Container, selector DateSelector, now time.Time) model.Classification {
	delta, ok := MostCritical(containers, selector, now, table.Rounding(variant))
	if !ok {
		return model.Neutral()
	}
	return table.Lookup(variant, delta)
}
