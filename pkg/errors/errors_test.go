package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeNotFound, "tracking number not found")
	if err.Code() != CodeNotFound {
		t.Fatalf("expected %s, got %s", CodeNotFound, err.Code())
	}
	if err.Message() != "tracking number not found" {
		t.Fatalf("unexpected message %q", err.Message())
	}
	if err.Error() != "NOT_FOUND: tracking number not found" {
		t.Fatalf("unexpected Error() %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "creating payment")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("expected %s, got %s", CodeDependency, err.Code())
	}
}

func TestWrapNilCause(t *testing.T) {
	err := Wrap(CodeInternal, nil, "boom")
	if err.Unwrap() != nil {
		t.Fatal("expected no cause")
	}
	if err.Code() != CodeInternal {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	inner := New(CodeStateConflict, "cart already converted")
	wrapped := fmt.Errorf("placing order: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeStateConflict {
		t.Fatalf("unexpected code %s", typed.Code())
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
	if As(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestMetadataForKnownAndUnknownCodes(t *testing.T) {
	if meta := MetadataFor(CodeValidation); meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodePayment); meta.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(Code("NO_SUCH_CODE")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to internal, got %d", meta.HTTPStatus)
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "missing fields").
		WithDetails(map[string]string{"email": "required"})

	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details type %T", err.Details())
	}
	if details["email"] != "required" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("duplicate key value")
	err := fmt.Errorf("saving address: %w", Wrap(CodeConflict, cause, "insert failed"))

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if len(d.Chain) < 3 {
		t.Fatalf("expected full unwrap chain, got %v", d.Chain)
	}
	if Dump(nil).TopMessage != "" {
		t.Fatal("nil error should dump empty")
	}
}
