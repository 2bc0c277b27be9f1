package urgency

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Veraticus/customs-triage/internal/model"
)

// Rule table errors.
var (
	ErrUnknownVariant = errors.New("unknown rule variant")
	ErrInvalidRule    = errors.New("invalid rule")
	ErrMissingVariant = errors.New("rule table is missing a variant")
)

// RuleTable holds one rule per variant. Every list view classifies through
// the same table so thresholds cannot drift between views.
type RuleTable map[model.RuleVariant]model.Rule

func intPtr(i int) *int { return &i }

func window(lo, hi *int, tier model.PriorityTier, bg, text string) model.RuleWindow {
	return model.RuleWindow{Min: lo, Max: hi, Tier: tier, Background: bg, Text: text}
}

// DefaultRuleTable returns the production thresholds.
func DefaultRuleTable() RuleTable {
	return RuleTable{
		model.VariantETA: {
			Variant:  model.VariantETA,
			Rounding: model.RoundCeilRaw,
			Windows: []model.RuleWindow{
				window(intPtr(0), intPtr(0), model.TierCritical, "#ff1111", "white"),
				window(intPtr(1), intPtr(2), model.TierHigh, "#f85a5a", "black"),
				window(intPtr(3), intPtr(5), model.TierElevated, "#fd8e8e", "black"),
			},
		},
		model.VariantBillingPendingPerContainer: {
			Variant:  model.VariantBillingPendingPerContainer,
			Rounding: model.RoundCeilRaw,
			Windows: []model.RuleWindow{
				window(intPtr(-5), intPtr(0), model.TierElevated, "white", "blue"),
				window(intPtr(-10), intPtr(-6), model.TierHigh, "orange", "black"),
				window(nil, intPtr(-11), model.TierCritical, "red", "white"),
			},
		},
		model.VariantBillingPendingAggregated: {
			Variant:  model.VariantBillingPendingAggregated,
			Rounding: model.RoundFloorMidnight,
			Windows: []model.RuleWindow{
				window(intPtr(-5), intPtr(-1), model.TierElevated, "white", "blue"),
				window(intPtr(-9), intPtr(-6), model.TierHigh, "orange", "black"),
				window(nil, intPtr(-10), model.TierCritical, "red", "white"),
			},
		},
		model.VariantDetentionPerContainer: {
			Variant:  model.VariantDetentionPerContainer,
			Rounding: model.RoundCeilRaw,
			Windows: []model.RuleWindow{
				window(nil, intPtr(0), model.TierCritical, "darkred", "white"),
				window(intPtr(1), intPtr(1), model.TierCritical, "red", "white"),
				window(intPtr(2), intPtr(2), model.TierHigh, "orange", "black"),
				window(intPtr(3), intPtr(3), model.TierElevated, "yellow", "black"),
			},
		},
		model.VariantPrecomputedPriority: {
			Variant:  model.VariantPrecomputedPriority,
			Rounding: model.RoundNone,
			Windows: []model.RuleWindow{
				window(intPtr(1), intPtr(1), model.TierCritical, "red", "white"),
				window(intPtr(2), intPtr(2), model.TierHigh, "orange", "black"),
				window(intPtr(3), intPtr(3), model.TierElevated, "white", "blue"),
			},
		},
	}
}

// Match returns the classification of the first window containing value.
func Match(rule model.Rule, value int) (model.Classification, bool) {
	for _, w := range rule.Windows {
		if w.Contains(value) {
			return w.Classification(), true
		}
	}
	return model.Classification{}, false
}

// Lookup classifies value with the named variant, falling back to neutral
// when the variant is absent or no window matches.
func (t RuleTable) Lookup(variant model.RuleVariant, value int) model.Classification {
	rule, ok := t[variant]
	if !ok {
		return model.Neutral()
	}
	if c, ok := Match(rule, value); ok {
		return c
	}
	return model.Neutral()
}

// Rounding returns the rounding mode of the named variant.
func (t RuleTable) Rounding(variant model.RuleVariant) model.Rounding {
	if rule, ok := t[variant]; ok {
		return rule.Rounding
	}
	return model.RoundNone
}

// Merge returns a copy of t with the rules in overrides replacing the
// matching variants.
func (t RuleTable) Merge(overrides RuleTable) RuleTable {
	merged := make(RuleTable, len(t)+len(overrides))
	for v, r := range t {
		merged[v] = r
	}
	for v, r := range overrides {
		r.Variant = v
		merged[v] = r
	}
	return merged
}

// Validate checks that every variant is present and every window is sane.
func (t RuleTable) Validate() error {
	for v := range t {
		if !isKnownVariant(v) {
			return fmt.Errorf("%w: %q", ErrUnknownVariant, v)
		}
	}
	for _, v := range model.RuleVariants {
		rule, ok := t[v]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingVariant, v)
		}
		if err := validateRule(v, rule); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(v model.RuleVariant, rule model.Rule) error {
	switch rule.Rounding {
	case model.RoundCeilRaw, model.RoundFloorMidnight:
		if v == model.VariantPrecomputedPriority {
			return fmt.Errorf("%w: %s does not read dates, rounding must be %q", ErrInvalidRule, v, model.RoundNone)
		}
	case model.RoundNone:
		if v != model.VariantPrecomputedPriority {
			return fmt.Errorf("%w: %s needs a date rounding mode", ErrInvalidRule, v)
		}
	default:
		return fmt.Errorf("%w: %s has unknown rounding %q", ErrInvalidRule, v, rule.Rounding)
	}

	if len(rule.Windows) == 0 {
		return fmt.Errorf("%w: %s has no windows", ErrInvalidRule, v)
	}
	for i, w := range rule.Windows {
		if w.Min != nil && w.Max != nil && *w.Min > *w.Max {
			return fmt.Errorf("%w: %s window %d has min %d above max %d", ErrInvalidRule, v, i, *w.Min, *w.Max)
		}
		if !w.Tier.Valid() {
			return fmt.Errorf("%w: %s window %d has tier %d", ErrInvalidRule, v, i, w.Tier)
		}
		if w.Background == "" || w.Text == "" {
			return fmt.Errorf("%w: %s window %d is missing a color", ErrInvalidRule, v, i)
		}
	}
	return nil
}

func isKnownVariant(v model.RuleVariant) bool {
	return slices.Contains(model.RuleVariants, v)
}
