package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/customs-triage/internal/model"
)

func TestBuilder(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	listing := NewBuilder(now).
		ETA("eta", 2).WithJobNumber("IMP-1").
		Detention("det", -1, 3).WithPriority(1).
		Billing("lcl", model.ConsignmentLCL, -7).
		Billing("fcl", model.ConsignmentFCL, -12).
		Status("done", "Delivered").
		Build()

	require.Len(t, listing, 5)

	assert.Equal(t, "2025-06-17", listing[0].VesselBerthing)
	assert.Equal(t, "IMP-1", listing[0].JobNumber)

	require.Len(t, listing[1].Containers, 2)
	assert.Equal(t, "2025-06-14", listing[1].Containers[0].DetentionFrom)
	assert.Equal(t, "det-C2", listing[1].Containers[1].ContainerNumber)
	require.NotNil(t, listing[1].ColorPriority)
	assert.Equal(t, 1, *listing[1].ColorPriority)

	assert.Equal(t, "2025-06-08", listing[2].Containers[0].DeliveryDate)
	assert.Empty(t, listing[2].Containers[0].EmptyContainerOffLoadDate)
	assert.Equal(t, "2025-06-03", listing[3].Containers[0].EmptyContainerOffLoadDate)

	assert.Equal(t, model.DetailedStatus("Delivered"), listing[4].DetailedStatus)
	assert.Nil(t, listing[4].ColorPriority)
}

func TestBuilder_WithPriorityOnEmptyBuilder(t *testing.T) {
	assert.Empty(t, NewBuilder(time.Now()).WithPriority(1).WithJobNumber("x").Build())
}
