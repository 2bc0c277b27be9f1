package urgency

import (
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
)

// Classifier turns a job into a Classification. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	table    RuleTable
	loc      *time.Location
	strategy Strategy
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRuleTable replaces the default thresholds.
func WithRuleTable(table RuleTable) Option {
	return func(c *Classifier) {
		if table != nil {
			c.table = table
		}
	}
}

// WithStrategy selects how multi-container jobs are collapsed.
func WithStrategy(s Strategy) Option {
	return func(c *Classifier) {
		c.strategy = s
	}
}

// WithLocation sets the time zone used to read zone-less dates and to find
// midnight. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(c *Classifier) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// NewClassifier creates a classifier with the default rule table and the
// last-wins strategy.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		table:    DefaultRuleTable(),
		loc:      time.Local,
		strategy: StrategyLastWins,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Strategy returns the configured container strategy.
func (c *Classifier) Strategy() Strategy {
	return c.strategy
}

// Location returns the time zone dates are read in.
func (c *Classifier) Location() *time.Location {
	return c.loc
}

// Table returns the rule table in use.
func (c *Classifier) Table() RuleTable {
	return c.table
}

// Classify decides the urgency of job as of now. A valid precomputed
// priority wins; otherwise the rule selected by the job's detailed status
// applies. It never fails: a job with an unknown status or unusable dates
// comes back neutral, which reads the same as "not urgent".
func (c *Classifier) Classify(job model.Job, now time.Time) model.Classification {
	if resolved, ok := c.ResolvePrecomputed(job); ok {
		return resolved
	}
	return c.classifyWith(job, now, c.strategy)
}

// ResolvePrecomputed returns the classification for a valid colorPriority
// (1 to 3). The bool is false when the caller must compute the fallback.
func (c *Classifier) ResolvePrecomputed(job model.Job) (model.Classification, bool) {
	if job.ColorPriority == nil {
		return model.Classification{}, false
	}
	p := *job.ColorPriority
	if !model.PriorityTier(p).Valid() {
		return model.Classification{}, false
	}
	rule, ok := c.table[model.VariantPrecomputedPriority]
	if !ok {
		return model.Classification{}, false
	}
	return Match(rule, p)
}

// Oracle computes the classification the batch process is expected to
// have stored for job. It ignores colorPriority and always aggregates on
// the most critical container.
func (c *Classifier) Oracle(job model.Job, now time.Time) model.Classification {
	return c.classifyWith(job, now, StrategyMostCritical)
}

// VariantFor reports which rule the job's status selects under strategy.
// The bool is false when no rule applies.
func VariantFor(job model.Job, strategy Strategy) (model.RuleVariant, bool) {
	switch job.DetailedStatus {
	case model.StatusEstimatedTimeOfArrival:
		return model.VariantETA, true
	case model.StatusBillingPending:
		if strategy == StrategyMostCritical {
			return model.VariantBillingPendingAggregated, true
		}
		return model.VariantBillingPendingPerContainer, true
	case model.StatusCustomClearanceCompleted:
		if len(job.Containers) == 0 {
			return "", false
		}
		return model.VariantDetentionPerContainer, true
	case model.StatusBeNotedClearancePending, model.StatusPcvDoneDutyPaymentPending:
		return model.VariantDetentionPerContainer, true
	}
	return "", false
}

func (c *Classifier) classifyWith(job model.Job, now time.Time, strategy Strategy) model.Classification {
	variant, ok := VariantFor(job, strategy)
	if !ok {
		return model.Neutral()
	}
	now = now.In(c.loc)

	if variant == model.VariantETA {
		delta, ok := DaysUntil(job.VesselBerthing, now, c.table.Rounding(variant))
		if !ok {
			return model.Neutral()
		}
		return c.table.Lookup(variant, delta)
	}
	if selector, ok := SelectorFor(job, variant); ok {
		return c.aggregate(strategy, variant, job.Containers, selector, now)
	}
	return model.Neutral()
}

func (c *Classifier) aggregate(strategy Strategy, variant model.RuleVariant, containers []model.Container, selector DateSelector, now time.Time) model.Classification {
	if strategy == StrategyMostCritical {
		return mostCritical(c.table, variant, containers, selector, now)
	}
	return lastWins(c.table, variant, containers, selector, now)
}
