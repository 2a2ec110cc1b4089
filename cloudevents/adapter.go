// Package cloudevents bridges gomq messages and CloudEvents. The message
// topic maps to the event type attribute and the structured payload to
// JSON event data, so envelopes can cross into CloudEvents-speaking
// systems without re-encoding by hand.
package cloudevents

import (
	"encoding/json"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/google/uuid"

	"github.com/fxsml/gomq"
)

// ToEvent converts a message into a CloudEvent. The topic becomes the
// event type and the payload the JSON event data. source fills the
// required CloudEvents source attribute; id and time are generated.
func ToEvent(m *gomq.Message, source string) (*event.Event, error) {
	if m == nil {
		return nil, fmt.Errorf("nil message")
	}

	e := cloudevents.NewEvent()
	e.SetID(uuid.NewString())
	e.SetType(m.Topic())
	e.SetSource(source)
	e.SetTime(time.Now().UTC())

	if m.Payload() != nil {
		data, err := json.Marshal(m.Payload())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", gomq.ErrSerialize, err)
		}
		if err := e.SetData(cloudevents.ApplicationJSON, json.RawMessage(data)); err != nil {
			return nil, fmt.Errorf("set data: %w", err)
		}
	}

	return &e, nil
}

// FromEvent converts a CloudEvent into a message. The event type becomes
// the topic and the JSON event data the structured payload; an event with
// no data yields a nil payload.
func FromEvent(e *event.Event) (*gomq.Message, error) {
	if e == nil {
		return nil, fmt.Errorf("nil event")
	}

	var payload any
	if data := e.Data(); len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal data: %w", err)
		}
	}

	return gomq.NewMessage(e.Type(), payload)
}
