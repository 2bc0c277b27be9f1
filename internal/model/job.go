// Package model defines the core domain models used throughout the application.
package model

// DetailedStatus is the lifecycle stage of a job. It selects which
// classification rule applies.
type DetailedStatus string

// Detailed status values that carry a classification rule. Any other value
// is accepted on input and classifies to the neutral default.
const (
	StatusEstimatedTimeOfArrival    DetailedStatus = "EstimatedTimeOfArrival"
	StatusBillingPending            DetailedStatus = "BillingPending"
	StatusCustomClearanceCompleted  DetailedStatus = "CustomClearanceCompleted"
	StatusBeNotedClearancePending   DetailedStatus = "BeNotedClearancePending"
	StatusPcvDoneDutyPaymentPending DetailedStatus = "PcvDoneDutyPaymentPending"
)

// ConsignmentType distinguishes full container loads from shared ones.
type ConsignmentType string

// Consignment types.
const (
	ConsignmentFCL ConsignmentType = "FCL"
	ConsignmentLCL ConsignmentType = "LCL"
)

// Job is a customs-clearance job as delivered by the job listing. Dates are
// kept as the raw ISO-8601 strings from the listing; an empty string stands
// for a missing date.
type Job struct {
	ColorPriority   *int            `json:"colorPriority,omitempty"`
	ID              string          `json:"id"`
	JobNumber       string          `json:"jobNumber,omitempty"`
	DetailedStatus  DetailedStatus  `json:"detailedStatus"`
	ConsignmentType ConsignmentType `json:"consignmentType"`
	VesselBerthing  string          `json:"vesselBerthing,omitempty"`
	Containers      []Container     `json:"containers"`
}

// Container is a single container attached to a job.
type Container struct {
	ContainerNumber           string `json:"containerNumber"`
	Size                      string `json:"size,omitempty"`
	DeliveryDate              string `json:"deliveryDate,omitempty"`
	EmptyContainerOffLoadDate string `json:"emptyContainerOffLoadDate,omitempty"`
	DetentionFrom             string `json:"detentionFrom,omitempty"`
}

// DisplayName returns the job number when present, otherwise the ID.
func (j *Job) DisplayName() string {
	if j.JobNumber != "" {
		return j.JobNumber
	}
	return j.ID
}

// IsKnown reports whether the status is one of the statuses with a rule.
func (s DetailedStatus) IsKnown() bool {
	switch s {
	case StatusEstimatedTimeOfArrival,
		StatusBillingPending,
		StatusCustomClearanceCompleted,
		StatusBeNotedClearancePending,
		StatusPcvDoneDutyPaymentPending:
		return true
	}
	return false
}
