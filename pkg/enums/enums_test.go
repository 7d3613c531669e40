package enums

import "testing"

func TestCheckoutStepLinearity(t *testing.T) {
	if CheckoutStepShipping.Next() != CheckoutStepPayment {
		t.Fatal("shipping should advance to payment")
	}
	if CheckoutStepReview.Next() != CheckoutStepConfirm {
		t.Fatal("review should advance to confirm")
	}
	if CheckoutStepConfirm.Next() != CheckoutStepConfirm {
		t.Fatal("confirm is the last step")
	}
	if CheckoutStepPayment.Prev() != CheckoutStepShipping {
		t.Fatal("payment should step back to shipping")
	}
	if CheckoutStepShipping.Prev() != CheckoutStepShipping {
		t.Fatal("shipping is the first step")
	}
}

func TestTrackingStepRankOrdering(t *testing.T) {
	steps := TrackingSteps()
	if len(steps) != 5 {
		t.Fatalf("expected 5 milestones, got %d", len(steps))
	}
	for i := 1; i < len(steps); i++ {
		if steps[i-1].Rank() >= steps[i].Rank() {
			t.Fatalf("ranks not strictly increasing at %s", steps[i])
		}
	}
	if TrackingStepDelivered.Next() != TrackingStepDelivered {
		t.Fatal("delivered is terminal")
	}
	if TrackingStep("bogus").Rank() != -1 {
		t.Fatal("unknown step should rank -1")
	}
}

func TestShippingMethodCosts(t *testing.T) {
	cases := map[ShippingMethod]int64{
		ShippingMethodStandard:  10000,
		ShippingMethodExpress:   25000,
		ShippingMethodOvernight: 50000,
	}
	for method, want := range cases {
		if got := method.CostCents(); got != want {
			t.Fatalf("%s cost = %d, want %d", method, got, want)
		}
	}
	if ShippingMethod("pigeon").IsValid() {
		t.Fatal("unexpected valid method")
	}
}

func TestParseHelpersRejectUnknownValues(t *testing.T) {
	if _, err := ParseOrderStatus("returned"); err == nil {
		t.Fatal("expected error for unknown order status")
	}
	if _, err := ParseReturnReason(""); err == nil {
		t.Fatal("expected error for empty return reason")
	}
	if _, err := ParseUserRole("root"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if status, err := ParseReturnStatus("approved"); err != nil || status != ReturnStatusApproved {
		t.Fatalf("unexpected parse result %v %v", status, err)
	}
}
