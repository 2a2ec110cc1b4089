package cloudevents_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/fxsml/gomq"
	gomqce "github.com/fxsml/gomq/cloudevents"
)

func TestToEvent(t *testing.T) {
	msg, err := gomq.FromValue("orders/created", map[string]any{"id": "o-1", "total": 9.5})
	if err != nil {
		t.Fatal(err)
	}

	e, err := gomqce.ToEvent(msg, "/billing")
	if err != nil {
		t.Fatalf("ToEvent failed: %v", err)
	}

	if e.Type() != "orders/created" {
		t.Errorf("Type = %q, want orders/created", e.Type())
	}
	if e.Source() != "/billing" {
		t.Errorf("Source = %q, want /billing", e.Source())
	}
	if e.ID() == "" {
		t.Error("ID must be generated")
	}
	if len(e.Data()) == 0 {
		t.Error("Data must carry the payload")
	}
	if err := e.Validate(); err != nil {
		t.Errorf("event does not validate: %v", err)
	}
}

func TestToEventNilPayload(t *testing.T) {
	msg, err := gomq.NewMessage("heartbeat", nil)
	if err != nil {
		t.Fatal(err)
	}
	e, err := gomqce.ToEvent(msg, "/monitor")
	if err != nil {
		t.Fatalf("ToEvent failed: %v", err)
	}
	if len(e.Data()) != 0 {
		t.Errorf("Data = %q, want empty", e.Data())
	}
}

func TestToEventUnserializablePayload(t *testing.T) {
	msg, err := gomq.NewMessage("bad", make(chan int))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := gomqce.ToEvent(msg, "/x"); !errors.Is(err, gomq.ErrSerialize) {
		t.Errorf("error = %v, want ErrSerialize", err)
	}
}

func TestToEventNilMessage(t *testing.T) {
	if _, err := gomqce.ToEvent(nil, "/x"); err == nil {
		t.Fatal("expected error for nil message")
	}
}

func TestEventRoundTrip(t *testing.T) {
	want, err := gomq.FromValue("sensors/temp", map[string]any{"celsius": 21.5})
	if err != nil {
		t.Fatal(err)
	}

	e, err := gomqce.ToEvent(want, "/sensors")
	if err != nil {
		t.Fatalf("ToEvent failed: %v", err)
	}
	got, err := gomqce.FromEvent(e)
	if err != nil {
		t.Fatalf("FromEvent failed: %v", err)
	}

	if got.Topic() != want.Topic() {
		t.Errorf("Topic = %q, want %q", got.Topic(), want.Topic())
	}
	if !reflect.DeepEqual(got.Payload(), want.Payload()) {
		t.Errorf("Payload = %#v, want %#v", got.Payload(), want.Payload())
	}
}

func TestFromEventNil(t *testing.T) {
	if _, err := gomqce.FromEvent(nil); err == nil {
		t.Fatal("expected error for nil event")
	}
}
