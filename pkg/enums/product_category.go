package enums

import "fmt"

// ProductCategory classifies surveying equipment in the catalog.
type ProductCategory string

const (
	ProductCategoryGNSSReceiver ProductCategory = "gnss_receiver"
	ProductCategoryTotalStation ProductCategory = "total_station"
	ProductCategoryLevel        ProductCategory = "level"
	ProductCategoryDrone        ProductCategory = "drone"
	ProductCategoryAccessory    ProductCategory = "accessory"
)

var validProductCategories = []ProductCategory{
	ProductCategoryGNSSReceiver,
	ProductCategoryTotalStation,
	ProductCategoryLevel,
	ProductCategoryDrone,
	ProductCategoryAccessory,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCategory.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
