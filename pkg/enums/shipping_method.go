package enums

import "fmt"

// ShippingMethod is a delivery speed option offered at checkout.
type ShippingMethod string

const (
	ShippingMethodStandard  ShippingMethod = "standard"
	ShippingMethodExpress   ShippingMethod = "express"
	ShippingMethodOvernight ShippingMethod = "overnight"
)

var validShippingMethods = []ShippingMethod{
	ShippingMethodStandard,
	ShippingMethodExpress,
	ShippingMethodOvernight,
}

// Flat shipping cost per method, in minor currency units.
var shippingCostCents = map[ShippingMethod]int64{
	ShippingMethodStandard:  10000,
	ShippingMethodExpress:   25000,
	ShippingMethodOvernight: 50000,
}

// String implements fmt.Stringer.
func (s ShippingMethod) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShippingMethod.
func (s ShippingMethod) IsValid() bool {
	_, ok := shippingCostCents[s]
	return ok
}

// CostCents returns the flat shipping cost for the method.
func (s ShippingMethod) CostCents() int64 {
	return shippingCostCents[s]
}

// ParseShippingMethod converts raw input into a ShippingMethod.
func ParseShippingMethod(value string) (ShippingMethod, error) {
	for _, candidate := range validShippingMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping method %q", value)
}
