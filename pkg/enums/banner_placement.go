package enums

import "fmt"

// BannerPlacement identifies a storefront slot a banner can occupy.
type BannerPlacement string

const (
	BannerPlacementHero    BannerPlacement = "hero"
	BannerPlacementPromo   BannerPlacement = "promo_strip"
	BannerPlacementSidebar BannerPlacement = "sidebar"
)

var validBannerPlacements = []BannerPlacement{
	BannerPlacementHero,
	BannerPlacementPromo,
	BannerPlacementSidebar,
}

// String implements fmt.Stringer.
func (b BannerPlacement) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BannerPlacement.
func (b BannerPlacement) IsValid() bool {
	for _, candidate := range validBannerPlacements {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBannerPlacement converts raw input into a BannerPlacement.
func ParseBannerPlacement(value string) (BannerPlacement, error) {
	for _, candidate := range validBannerPlacements {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid banner placement %q", value)
}
