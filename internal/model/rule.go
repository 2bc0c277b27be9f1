package model

// RuleVariant names one classification rule.
type RuleVariant string

// Rule variants.
const (
	VariantETA                        RuleVariant = "eta"
	VariantBillingPendingPerContainer RuleVariant = "billing_pending_per_container"
	VariantBillingPendingAggregated   RuleVariant = "billing_pending_aggregated"
	VariantDetentionPerContainer      RuleVariant = "detention_per_container"
	VariantPrecomputedPriority        RuleVariant = "precomputed_priority"
)

// RuleVariants lists every variant in display order.
var RuleVariants = []RuleVariant{
	VariantETA,
	VariantBillingPendingPerContainer,
	VariantBillingPendingAggregated,
	VariantDetentionPerContainer,
	VariantPrecomputedPriority,
}

// Rounding selects how a timestamp delta becomes a whole number of days.
type Rounding string

// Rounding modes.
const (
	// RoundCeilRaw takes the ceiling of the raw timestamp delta.
	RoundCeilRaw Rounding = "ceil_raw"
	// RoundFloorMidnight normalises both instants to midnight first and
	// takes the floor.
	RoundFloorMidnight Rounding = "floor_midnight"
	// RoundNone marks rules whose input is not a date.
	RoundNone Rounding = "none"
)

// RuleWindow maps an inclusive range of values to a classification.
// A nil bound is unbounded on that side.
type RuleWindow struct {
	Min        *int         `json:"min,omitempty" mapstructure:"min"`
	Max        *int         `json:"max,omitempty" mapstructure:"max"`
	Background string       `json:"background" mapstructure:"background"`
	Text       string       `json:"text" mapstructure:"text"`
	Tier       PriorityTier `json:"tier" mapstructure:"tier"`
}

// Contains reports whether value falls inside the window.
func (w RuleWindow) Contains(value int) bool {
	if w.Min != nil && value < *w.Min {
		return false
	}
	if w.Max != nil && value > *w.Max {
		return false
	}
	return true
}

// Classification returns the classification the window assigns.
func (w RuleWindow) Classification() Classification {
	return Classification{
		Tier:            w.Tier,
		BackgroundColor: w.Background,
		TextColor:       w.Text,
	}
}

// Rule is an ordered list of windows evaluated first match wins.
type Rule struct {
	Variant  RuleVariant  `json:"variant" mapstructure:"-"`
	Rounding Rounding     `json:"rounding" mapstructure:"rounding"`
	Windows  []RuleWindow `json:"windows" mapstructure:"windows"`
}
