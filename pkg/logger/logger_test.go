package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestLogger(buf *bytes.Buffer, warnStack bool) *Logger {
	return New(Options{
		ServiceName: "geoshop-test",
		Level:       zerolog.DebugLevel,
		WarnStack:   warnStack,
		Output:      buf,
	})
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decoding log line %q: %v", line, err)
	}
	return payload
}

func TestInfoCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logg := newTestLogger(&buf, false)

	ctx := logg.WithRequestID(context.Background(), "req-123")
	ctx = logg.WithCustomerID(ctx, "cust-9")
	logg.Info(ctx, "order placed")

	payload := decodeLine(t, &buf)
	if payload["request_id"] != "req-123" {
		t.Fatalf("expected request_id, got %v", payload["request_id"])
	}
	if payload["customer_id"] != "cust-9" {
		t.Fatalf("expected customer_id, got %v", payload["customer_id"])
	}
	if payload["service"] != "geoshop-test" {
		t.Fatalf("expected service field, got %v", payload["service"])
	}
	if payload["message"] != "order placed" {
		t.Fatalf("expected message, got %v", payload["message"])
	}
}

func TestWithFieldsDoesNotMutateParentContext(t *testing.T) {
	var buf bytes.Buffer
	logg := newTestLogger(&buf, false)

	parent := logg.WithRequestID(context.Background(), "req-1")
	_ = logg.WithFields(parent, map[string]any{"order_id": "ord-1"})

	logg.Info(parent, "parent line")
	payload := decodeLine(t, &buf)
	if _, ok := payload["order_id"]; ok {
		t.Fatal("parent context should not carry child fields")
	}
}

func TestErrorIncludesErrAndStack(t *testing.T) {
	var buf bytes.Buffer
	logg := newTestLogger(&buf, false)

	logg.Error(context.Background(), "payment failed", errors.New("card declined"))

	payload := decodeLine(t, &buf)
	if payload["error"] != "card declined" {
		t.Fatalf("expected error field, got %v", payload["error"])
	}
	stack, _ := payload["stack"].(string)
	if !strings.Contains(stack, "goroutine") {
		t.Fatalf("expected stack trace, got %q", stack)
	}
}

func TestWarnStackOnlyWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	logg := newTestLogger(&buf, false)
	logg.Warn(context.Background(), "slow query")
	if _, ok := decodeLine(t, &buf)["stack"]; ok {
		t.Fatal("warn should not carry a stack when disabled")
	}

	buf.Reset()
	logg = newTestLogger(&buf, true)
	logg.Warn(context.Background(), "slow query")
	if _, ok := decodeLine(t, &buf)["stack"]; !ok {
		t.Fatal("warn should carry a stack when enabled")
	}
}

func TestParseLevel(t *testing.T) {
	if got := ParseLevel("debug"); got != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v", got)
	}
	if got := ParseLevel(" WARN "); got != zerolog.WarnLevel {
		t.Fatalf("expected warn, got %v", got)
	}
	if got := ParseLevel(""); got != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %v", got)
	}
	if got := ParseLevel("nonsense"); got != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %v", got)
	}
}
