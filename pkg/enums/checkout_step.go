package enums

import "fmt"

// CheckoutStep is one stage of the linear checkout wizard.
type CheckoutStep string

const (
	CheckoutStepShipping CheckoutStep = "shipping"
	CheckoutStepPayment  CheckoutStep = "payment"
	CheckoutStepReview   CheckoutStep = "review"
	CheckoutStepConfirm  CheckoutStep = "confirm"
)

// Wizard order. Transitions move one position at a time.
var orderedCheckoutSteps = []CheckoutStep{
	CheckoutStepShipping,
	CheckoutStepPayment,
	CheckoutStepReview,
	CheckoutStepConfirm,
}

// String implements fmt.Stringer.
func (c CheckoutStep) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStep.
func (c CheckoutStep) IsValid() bool {
	return c.position() >= 0
}

func (c CheckoutStep) position() int {
	for i, candidate := range orderedCheckoutSteps {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Next returns the following step, or the step itself when already at confirm.
func (c CheckoutStep) Next() CheckoutStep {
	pos := c.position()
	if pos < 0 || pos == len(orderedCheckoutSteps)-1 {
		return c
	}
	return orderedCheckoutSteps[pos+1]
}

// Prev returns the preceding step, or the step itself when already at shipping.
func (c CheckoutStep) Prev() CheckoutStep {
	pos := c.position()
	if pos <= 0 {
		return c
	}
	return orderedCheckoutSteps[pos-1]
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range orderedCheckoutSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
