package enums

import "fmt"

// ReturnCondition describes the declared state of the returned item.
type ReturnCondition string

const (
	ReturnConditionUnopened ReturnCondition = "unopened"
	ReturnConditionOpened   ReturnCondition = "opened"
	ReturnConditionUsed     ReturnCondition = "used"
	ReturnConditionDamaged  ReturnCondition = "damaged"
)

var validReturnConditions = []ReturnCondition{
	ReturnConditionUnopened,
	ReturnConditionOpened,
	ReturnConditionUsed,
	ReturnConditionDamaged,
}

// String implements fmt.Stringer.
func (r ReturnCondition) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReturnCondition.
func (r ReturnCondition) IsValid() bool {
	for _, candidate := range validReturnConditions {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReturnCondition converts raw input into a ReturnCondition.
func ParseReturnCondition(value string) (ReturnCondition, error) {
	for _, candidate := range validReturnConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid return condition %q", value)
}
