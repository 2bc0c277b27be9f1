package urgency

import (
	"time"

	"github.com/Veraticus/customs-triage/internal/model"
)

// testNow is mid-afternoon so date-only offsets land on whole day deltas
// under both rounding modes.
var testNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func dateOffset(days int) string {
	return testNow.AddDate(0, 0, days).Format("2006-01-02")
}

func intRef(i int) *int { return &i }

func classification(tier model.PriorityTier, bg, text string) model.Classification {
	return model.Classification{Tier: tier, BackgroundColor: bg, TextColor: text}
}

func newTestClassifier(opts ...Option) *Classifier {
	return NewClassifier(append([]Option{WithLocation(time.UTC)}, opts...)...)
}

func detentionJob(offsets ...int) model.Job {
	job := model.Job{
		ID:              "job-detention",
		DetailedStatus:  model.StatusBeNotedClearancePending,
		ConsignmentType: model.ConsignmentFCL,
	}
	for i, off := range offsets {
		job.Containers = append(job.Containers, model.Container{
			ContainerNumber: "CONT" + string(rune('A'+i)),
			DetentionFrom:   dateOffset(off),
		})
	}
	return job
}

func billingJob(consignment model.ConsignmentType, offsets ...int) model.Job {
	job := model.Job{
		ID:              "job-billing",
		DetailedStatus:  model.StatusBillingPending,
		ConsignmentType: consignment,
	}
	for i, off := range offsets {
		c := model.Container{ContainerNumber: "CONT" + string(rune('A'+i))}
		if consignment == model.ConsignmentLCL {
			c.DeliveryDate = dateOffset(off)
		} else {
			c.EmptyContainerOffLoadDate = dateOffset(off)
		}
		job.Containers = append(job.Containers, c)
	}
	return job
}
