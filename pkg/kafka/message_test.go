package kafka

import (
	"math"
	"testing"
	"time"
)

func TestMessageBuilder_Build(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	msg := NewMessage().
		WithKey("65f0c0ffee").
		WithValue(map[string]any{"seats": 29}).
		WithEventType("class.seat_booked").
		WithSource("classes").
		WithCorrelationID("req-1").
		WithTimestamp(ts).
		WithHeader("tenant", "school").
		Build()

	if msg.Key != "65f0c0ffee" {
		t.Errorf("unexpected key %q", msg.Key)
	}
	if string(msg.Value) != `{"seats":29}` {
		t.Errorf("unexpected value %s", msg.Value)
	}
	if msg.GetEventID() == "" {
		t.Error("expected generated event id")
	}
	if msg.GetEventType() != "class.seat_booked" || msg.GetCorrelationID() != "req-1" {
		t.Errorf("unexpected headers %v", msg.Headers)
	}
	if v, ok := msg.GetHeader("tenant"); !ok || v != "school" {
		t.Errorf("expected custom header, got %q", v)
	}
	if msg.Headers[HeaderTimestamp] != "2026-03-01T10:00:00Z" {
		t.Errorf("unexpected timestamp header %q", msg.Headers[HeaderTimestamp])
	}
}

func TestMessageBuilder_KeepsExplicitEventID(t *testing.T) {
	msg := NewMessage().WithEventID("evt-1").Build()
	if msg.GetEventID() != "evt-1" {
		t.Errorf("expected evt-1, got %q", msg.GetEventID())
	}
	noCorrelation := NewMessage().WithCorrelationID("").Build()
	if _, ok := noCorrelation.GetHeader(HeaderCorrelationID); ok {
		t.Error("empty correlation id must not be set")
	}
}

func TestMessageBuilder_BuildEReportsEncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(math.Inf(1)).BuildE()
	if err == nil {
		t.Fatal("expected encoding error")
	}
	if ClassifyError(err) != ErrorTypePermanent {
		t.Error("encoding errors must be permanent")
	}
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	if msg.GetRetryCount() != 0 {
		t.Fatal("expected zero retries")
	}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	if msg.GetRetryCount() != 12 {
		t.Errorf("expected 12 retries, got %d", msg.GetRetryCount())
	}

	bad := Message{Headers: map[string]string{HeaderRetryCount: "x"}}
	if bad.GetRetryCount() != 0 {
		t.Error("garbage retry header must read as zero")
	}

	var empty Message
	empty.IncrementRetryCount()
	if empty.GetRetryCount() != 1 {
		t.Error("increment must initialise headers")
	}
}

func TestMessage_DecodeValue(t *testing.T) {
	msg := NewMessage().WithValue(struct {
		Seats int `json:"seats"`
	}{Seats: 4}).Build()

	var out struct {
		Seats int `json:"seats"`
	}
	if err := msg.DecodeValue(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.Seats != 4 {
		t.Errorf("expected 4, got %d", out.Seats)
	}
}
