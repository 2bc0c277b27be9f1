package urgency

import (
	"sort"
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
)

// Outcome describes how a stored priority compares with the oracle.
type Outcome string

// Reconciliation outcomes.
const (
	OutcomeAgree        Outcome = "agree"
	OutcomeDisagree     Outcome = "disagree"
	OutcomeMissing      Outcome = "missing"
	OutcomeUnclassified Outcome = "unclassified"
)

// Reconciliation pairs a job's precomputed tier with the oracle's tier.
type Reconciliation struct {
	JobID       string               `json:"jobId"`
	Outcome     Outcome              `json:"outcome"`
	Oracle      model.Classification `json:"oracle"`
	Precomputed model.PriorityTier   `json:"precomputed"`
}

// Reconcile checks the job's colorPriority against the oracle computation.
// A job whose oracle tier is neutral is expected to carry no priority.
func (c *Classifier) Reconcile(job model.Job, now time.Time) Reconciliation {
	oracle := c.Oracle(job, now)
	r := Reconciliation{
		JobID:  job.ID,
		Oracle: oracle,
	}

	if _, ok := c.ResolvePrecomputed(job); !ok {
		if oracle.IsNeutral() {
			r.Outcome = OutcomeAgree
		} else {
			r.Outcome = OutcomeMissing
		}
		return r
	}

	r.Precomputed = model.PriorityTier(*job.ColorPriority)
	switch {
	case oracle.IsNeutral():
		r.Outcome = OutcomeUnclassified
	case oracle.Tier == r.Precomputed:
		r.Outcome = OutcomeAgree
	default:
		r.Outcome = OutcomeDisagree
	}
	return r
}

// Ranked is a job together with its classification.
type Ranked struct {
	Job            model.Job
	Classification model.Classification
}

// Rank classifies every job and orders them most urgent first. Neutral jobs
// go last; ties keep their input order.
func (c *Classifier) Rank(jobs []model.Job, now time.Time) []Ranked {
	ranked := make([]Ranked, len(jobs))
	for i, job := range jobs {
		ranked[i] = Ranked{Job: job, Classification: c.Classify(job, now)}
	}
	return SortRanked(ranked)
}

// SortRanked orders already classified jobs most urgent first, in place.
func SortRanked(ranked []Ranked) []Ranked {
	sort.SliceStable(ranked, func(i, j int) bool {
		return rankKey(ranked[i].Classification.Tier) < rankKey(ranked[j].Classification.Tier)
	})
	return ranked
}

func rankKey(t model.PriorityTier) int {
	if !t.Valid() {
		return int(model.TierElevated) + 1
	}
	return int(t)
}

// Summary counts jobs per tier.
type Summary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Elevated int `json:"elevated"`
	Neutral  int `json:"neutral"`
}

// Total returns the number of jobs counted.
func (s Summary) Total() int {
	return s.Critical + s.High + s.Elevated + s.Neutral
}

// Summarize counts the ranked jobs per tier.
func Summarize(ranked []Ranked) Summary {
	var s Summary
	for _, r := range ranked {
		switch r.Classification.Tier {
		case model.TierCritical:
			s.Critical++
		case model.TierHigh:
			s.High++
		case model.TierElevated:
			s.Elevated++
		default:
			s.Neutral++
		}
	}
	return s
}
