package enums

import "fmt"

// TrackingStep is one milestone on a shipment timeline.
type TrackingStep string

const (
	TrackingStepOrdered        TrackingStep = "ordered"
	TrackingStepPacked         TrackingStep = "packed"
	TrackingStepInTransit      TrackingStep = "in_transit"
	TrackingStepOutForDelivery TrackingStep = "out_for_delivery"
	TrackingStepDelivered      TrackingStep = "delivered"
)

// Chronological milestone order.
var orderedTrackingSteps = []TrackingStep{
	TrackingStepOrdered,
	TrackingStepPacked,
	TrackingStepInTransit,
	TrackingStepOutForDelivery,
	TrackingStepDelivered,
}

// String implements fmt.Stringer.
func (t TrackingStep) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TrackingStep.
func (t TrackingStep) IsValid() bool {
	return t.Rank() >= 0
}

// Rank returns the milestone position (0-based), or -1 when unknown.
func (t TrackingStep) Rank() int {
	for i, candidate := range orderedTrackingSteps {
		if candidate == t {
			return i
		}
	}
	return -1
}

// Next returns the following milestone, or the step itself at delivered.
func (t TrackingStep) Next() TrackingStep {
	rank := t.Rank()
	if rank < 0 || rank == len(orderedTrackingSteps)-1 {
		return t
	}
	return orderedTrackingSteps[rank+1]
}

// TrackingSteps returns the milestones in chronological order.
func TrackingSteps() []TrackingStep {
	steps := make([]TrackingStep, len(orderedTrackingSteps))
	copy(steps, orderedTrackingSteps)
	return steps
}

// ParseTrackingStep converts raw input into a TrackingStep.
func ParseTrackingStep(value string) (TrackingStep, error) {
	for _, candidate := range orderedTrackingSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tracking step %q", value)
}
