package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// NewOrderNumber mints a customer-facing order number, e.g. GEO-20260830-493027.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("GEO-%s-%s", now.UTC().Format("20060102"), randomDigits(6))
}

// NewTrackingNumber mints a carrier-styled tracking number, e.g. NG4930274415ID.
func NewTrackingNumber() string {
	return "NG" + randomDigits(10) + "ID"
}

func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		value, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			digits[i] = '0'
			continue
		}
		digits[i] = byte('0' + value.Int64())
	}
	return string(digits)
}
