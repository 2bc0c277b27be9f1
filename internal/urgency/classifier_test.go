package urgency

import (
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_ETA(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name     string
		berthing string
		want     model.Classification
	}{
		{"berthing today", dateOffset(0), classification(1, "#ff1111", "white")},
		{"berthing yesterday", dateOffset(-1), model.Neutral()},
		{"berthing tomorrow", dateOffset(1), classification(2, "#f85a5a", "black")},
		{"berthing in two days", dateOffset(2), classification(2, "#f85a5a", "black")},
		{"berthing in three days", dateOffset(3), classification(3, "#fd8e8e", "black")},
		{"berthing in five days", dateOffset(5), classification(3, "#fd8e8e", "black")},
		{"berthing in six days", dateOffset(6), model.Neutral()},
		{"no berthing date", "", model.Neutral()},
		{"unparseable berthing date", "soon", model.Neutral()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := model.Job{
				DetailedStatus: model.StatusEstimatedTimeOfArrival,
				VesselBerthing: tt.berthing,
			}
			assert.Equal(t, tt.want, c.Classify(job, testNow))
		})
	}
}

func TestClassify_BillingPendingPerContainer(t *testing.T) {
	c := newTestClassifier(WithStrategy(StrategyLastWins))

	tests := []struct {
		name string
		job  model.Job
		want model.Classification
	}{
		{"lcl today", billingJob(model.ConsignmentLCL, 0), classification(3, "white", "blue")},
		{"lcl -5", billingJob(model.ConsignmentLCL, -5), classification(3, "white", "blue")},
		{"lcl -6", billingJob(model.ConsignmentLCL, -6), classification(2, "orange", "black")},
		{"lcl -10", billingJob(model.ConsignmentLCL, -10), classification(2, "orange", "black")},
		{"lcl -11", billingJob(model.ConsignmentLCL, -11), classification(1, "red", "white")},
		{"fcl uses off-load date", billingJob(model.ConsignmentFCL, -11), classification(1, "red", "white")},
		{"future delivery", billingJob(model.ConsignmentLCL, 2), model.Neutral()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.job, testNow))
		})
	}
}

func TestClassify_BillingPendingSelectsDateByConsignment(t *testing.T) {
	c := newTestClassifier()
	job := model.Job{
		DetailedStatus:  model.StatusBillingPending,
		ConsignmentType: model.ConsignmentFCL,
		Containers: []model.Container{{
			DeliveryDate:              dateOffset(-20),
			EmptyContainerOffLoadDate: dateOffset(-2),
		}},
	}

	assert.Equal(t, classification(3, "white", "blue"), c.Classify(job, testNow))

	job.ConsignmentType = model.ConsignmentLCL
	assert.Equal(t, classification(1, "red", "white"), c.Classify(job, testNow))
}

func TestClassify_BillingPendingAggregated(t *testing.T) {
	c := newTestClassifier(WithStrategy(StrategyMostCritical))

	tests := []struct {
		name string
		job  model.Job
		want model.Classification
	}{
		{"today is uncolored", billingJob(model.ConsignmentLCL, 0), model.Neutral()},
		{"-1", billingJob(model.ConsignmentLCL, -1), classification(3, "white", "blue")},
		{"-6", billingJob(model.ConsignmentLCL, -6), classification(2, "orange", "black")},
		{"-9", billingJob(model.ConsignmentLCL, -9), classification(2, "orange", "black")},
		{"-10", billingJob(model.ConsignmentLCL, -10), classification(1, "red", "white")},
		{"most overdue container governs", billingJob(model.ConsignmentFCL, -2, -12, -7), classification(1, "red", "white")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.job, testNow))
		})
	}
}

func TestClassify_Detention(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name   string
		status model.DetailedStatus
		offset int
		want   model.Classification
	}{
		{"due today", model.StatusBeNotedClearancePending, 0, classification(1, "darkred", "white")},
		{"three days overdue", model.StatusBeNotedClearancePending, -3, classification(1, "darkred", "white")},
		{"one day left", model.StatusPcvDoneDutyPaymentPending, 1, classification(1, "red", "white")},
		{"two days left", model.StatusPcvDoneDutyPaymentPending, 2, classification(2, "orange", "black")},
		{"three days left", model.StatusCustomClearanceCompleted, 3, classification(3, "yellow", "black")},
		{"four days left", model.StatusCustomClearanceCompleted, 4, model.Neutral()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := detentionJob(tt.offset)
			job.DetailedStatus = tt.status
			assert.Equal(t, tt.want, c.Classify(job, testNow))
		})
	}
}

func TestClassify_EmptyContainers(t *testing.T) {
	statuses := []model.DetailedStatus{
		model.StatusBillingPending,
		model.StatusCustomClearanceCompleted,
		model.StatusBeNotedClearancePending,
		model.StatusPcvDoneDutyPaymentPending,
	}

	for _, strategy := range []Strategy{StrategyLastWins, StrategyMostCritical} {
		c := newTestClassifier(WithStrategy(strategy))
		for _, status := range statuses {
			job := model.Job{DetailedStatus: status, Containers: []model.Container{}}
			assert.NotPanics(t, func() {
				assert.Equal(t, model.Neutral(), c.Classify(job, testNow), "%s/%s", strategy, status)
			})
		}
	}
}

func TestClassify_UnknownStatus(t *testing.T) {
	c := newTestClassifier()
	job := detentionJob(0)
	job.DetailedStatus = "Delivered"

	assert.Equal(t, model.Neutral(), c.Classify(job, testNow))

	job.DetailedStatus = ""
	assert.Equal(t, model.Neutral(), c.Classify(job, testNow))
}

func TestClassify_StatusSelectsRuleNotContainers(t *testing.T) {
	// Detention dates are ignored on an ETA job.
	c := newTestClassifier()
	job := detentionJob(0)
	job.DetailedStatus = model.StatusEstimatedTimeOfArrival
	job.VesselBerthing = dateOffset(9)

	assert.Equal(t, model.Neutral(), c.Classify(job, testNow))
}

func TestClassify_PrecomputedPrecedence(t *testing.T) {
	for _, strategy := range []Strategy{StrategyLastWins, StrategyMostCritical} {
		c := newTestClassifier(WithStrategy(strategy))

		// Rules alone would say darkred/white.
		job := detentionJob(-4, 0)
		job.ColorPriority = intRef(2)

		assert.Equal(t, classification(2, "orange", "black"), c.Classify(job, testNow), string(strategy))
	}
}

func TestClassify_InvalidPrecomputedDelegates(t *testing.T) {
	c := newTestClassifier()

	for _, p := range []int{0, 4, -1} {
		job := detentionJob(2)
		job.ColorPriority = intRef(p)
		assert.Equal(t, classification(2, "orange", "black"), c.Classify(job, testNow), "colorPriority %d", p)
	}
}

func TestResolvePrecomputed(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		priority *int
		want     model.Classification
		name     string
		wantOK   bool
	}{
		{name: "absent", priority: nil, wantOK: false},
		{name: "one", priority: intRef(1), want: classification(1, "red", "white"), wantOK: true},
		{name: "two", priority: intRef(2), want: classification(2, "orange", "black"), wantOK: true},
		{name: "three", priority: intRef(3), want: classification(3, "white", "blue"), wantOK: true},
		{name: "zero", priority: intRef(0), wantOK: false},
		{name: "four", priority: intRef(4), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.ResolvePrecomputed(model.Job{ColorPriority: tt.priority})
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClassify_StrategiesOnDetentionFixture(t *testing.T) {
	lastWins := newTestClassifier(WithStrategy(StrategyLastWins))
	mostCritical := newTestClassifier(WithStrategy(StrategyMostCritical))

	t.Run("+3 then +1", func(t *testing.T) {
		job := detentionJob(3, 1)

		// The last container is also the most critical one, so both
		// strategies land on red/white for this ordering.
		assert.Equal(t, classification(1, "red", "white"), lastWins.Classify(job, testNow))
		assert.Equal(t, classification(1, "red", "white"), mostCritical.Classify(job, testNow))
	})

	t.Run("+1 then +3", func(t *testing.T) {
		job := detentionJob(1, 3)

		got := lastWins.Classify(job, testNow)
		want := mostCritical.Classify(job, testNow)

		assert.Equal(t, classification(3, "yellow", "black"), got)
		assert.Equal(t, classification(1, "red", "white"), want)
		assert.NotEqual(t, got, want)
	})
}

func TestClassify_Scenarios(t *testing.T) {
	c := newTestClassifier()

	t.Run("A: vessel berthing today", func(t *testing.T) {
		job := model.Job{
			DetailedStatus: model.StatusEstimatedTimeOfArrival,
			VesselBerthing: dateOffset(0),
		}
		assert.Equal(t, classification(1, "#ff1111", "white"), c.Classify(job, testNow))
	})

	t.Run("B: LCL delivered a week ago", func(t *testing.T) {
		job := model.Job{
			DetailedStatus:  model.StatusBillingPending,
			ConsignmentType: model.ConsignmentLCL,
			Containers: []model.Container{{
				ContainerNumber: "MSKU1234567",
				DeliveryDate:    testNow.AddDate(0, 0, -7).Format(time.RFC3339),
			}},
		}
		assert.Equal(t, classification(2, "orange", "black"), c.Classify(job, testNow))
	})

	t.Run("C: precomputed beats ETA", func(t *testing.T) {
		job := model.Job{
			DetailedStatus: model.StatusEstimatedTimeOfArrival,
			VesselBerthing: dateOffset(0),
			ColorPriority:  intRef(3),
		}
		assert.Equal(t, classification(3, "white", "blue"), c.Classify(job, testNow))
	})
}

func TestClassify_Deterministic(t *testing.T) {
	c := newTestClassifier()
	jobs := []model.Job{
		detentionJob(1, 3, -2),
		billingJob(model.ConsignmentLCL, -7, -1),
		{DetailedStatus: model.StatusEstimatedTimeOfArrival, VesselBerthing: dateOffset(2)},
	}

	for _, job := range jobs {
		first := c.Classify(job, testNow)
		second := c.Classify(job, testNow)
		assert.Equal(t, first, second)
	}
}

func TestClassify_DoesNotMutateJob(t *testing.T) {
	c := newTestClassifier()
	job := detentionJob(1, 3)
	job.ColorPriority = intRef(9)
	before := detentionJob(1, 3)
	before.ColorPriority = intRef(9)

	_ = c.Classify(job, testNow)
	_ = c.Oracle(job, testNow)

	assert.Equal(t, before, job)
}

func TestClassify_ConcurrentUse(t *testing.T) {
	c := newTestClassifier()
	job := detentionJob(2, 0)
	want := c.Classify(job, testNow)

	var wg sync.WaitGroup
	results := make([]model.Classification, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Classify(job, testNow)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestClassify_Location(t *testing.T) {
	// 23:00 UTC on the 15th is already the 16th in Tokyo; a zone-less date
	// of the 16th is "today" there and "tomorrow" in UTC.
	now := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	job := model.Job{DetailedStatus: model.StatusEstimatedTimeOfArrival, VesselBerthing: "2025-06-16"}

	utc := NewClassifier(WithLocation(time.UTC))
	tokyo := NewClassifier(WithLocation(time.FixedZone("JST", 9*60*60)))

	assert.Equal(t, model.TierHigh, utc.Classify(job, now).Tier)
	assert.Equal(t, model.TierCritical, tokyo.Classify(job, now).Tier)
}

func TestVariantFor(t *testing.T) {
	tests := []struct {
		name     string
		job      model.Job
		strategy Strategy
		want     model.RuleVariant
		wantOK   bool
	}{
		{"eta", model.Job{DetailedStatus: model.StatusEstimatedTimeOfArrival}, StrategyLastWins, model.VariantETA, true},
		{"billing last wins", model.Job{DetailedStatus: model.StatusBillingPending}, StrategyLastWins, model.VariantBillingPendingPerContainer, true},
		{"billing most critical", model.Job{DetailedStatus: model.StatusBillingPending}, StrategyMostCritical, model.VariantBillingPendingAggregated, true},
		{"clearance completed without containers", model.Job{DetailedStatus: model.StatusCustomClearanceCompleted}, StrategyLastWins, "", false},
		{"clearance completed with containers", detentionJobWithStatus(model.StatusCustomClearanceCompleted), StrategyLastWins, model.VariantDetentionPerContainer, true},
		{"be noted", model.Job{DetailedStatus: model.StatusBeNotedClearancePending}, StrategyMostCritical, model.VariantDetentionPerContainer, true},
		{"pcv done", model.Job{DetailedStatus: model.StatusPcvDoneDutyPaymentPending}, StrategyLastWins, model.VariantDetentionPerContainer, true},
		{"other", model.Job{DetailedStatus: "Closed"}, StrategyLastWins, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := VariantFor(tt.job, tt.strategy)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func detentionJobWithStatus(status model.DetailedStatus) model.Job {
	job := detentionJob(1)
	job.DetailedStatus = status
	return job
}

func TestNewClassifier_Defaults(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, StrategyLastWins, c.Strategy())
	assert.Equal(t, DefaultRuleTable(), c.Table())

	c = NewClassifier(WithRuleTable(nil), WithLocation(nil))
	assert.Equal(t, DefaultRuleTable(), c.Table())
}
