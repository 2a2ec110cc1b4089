package gomq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Message is an immutable envelope of a topic and a structured payload.
//
// The topic is a non-empty string used for application routing and, in the
// pub/sub pattern, for subscriber-side prefix filtering. The payload is a
// JSON-like structured value: map[string]any, []any, string, float64,
// bool, or nil. Build a new Message to change contents; a constructed
// Message never changes.
type Message struct {
	topic   string
	payload any
}

// NewMessage creates a message from a topic and an already-structured
// payload value. Returns ErrInvalidTopic if topic is empty or not valid
// UTF-8.
func NewMessage(topic string, payload any) (*Message, error) {
	if err := validateTopic(topic); err != nil {
		return nil, err
	}
	return &Message{topic: topic, payload: payload}, nil
}

// FromValue creates a message by converting any JSON-serializable value
// into the canonical structured payload form (maps, slices, strings,
// float64 numbers, booleans, nil). Returns ErrSerialize if the value
// cannot be converted, ErrInvalidTopic if topic is empty.
func FromValue(topic string, v any) (*Message, error) {
	if err := validateTopic(topic); err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return &Message{topic: topic, payload: payload}, nil
}

// Topic returns the message topic.
func (m *Message) Topic() string {
	return m.topic
}

// Payload returns the structured payload value. Callers must not mutate
// the returned value; build a new Message instead.
func (m *Message) Payload() any {
	return m.payload
}

// PayloadAs converts the message payload into a concrete application type.
// Returns ErrDeserialize with the structural mismatch as its cause when the
// payload shape does not fit T.
func PayloadAs[T any](m *Message) (T, error) {
	var out T
	data, err := json.Marshal(m.payload)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	return out, nil
}

// Encode serializes the message into wire frames: frame 0 is the UTF-8
// topic, frame 1 the marshaled payload. The topic travels first so
// subscribers can filter by prefix without decoding the payload.
func (m *Message) Encode(mr Marshaler) ([][]byte, error) {
	data, err := mr.Marshal(m.payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return [][]byte{[]byte(m.topic), data}, nil
}

// Decode reconstructs a message from received wire frames. Fewer than two
// frames, an invalid topic frame, or a payload frame the marshaler cannot
// decode yields ErrMalformedMessage. Additional payload frames beyond the
// second are concatenated before decoding.
func Decode(frames [][]byte, mr Marshaler) (*Message, error) {
	if len(frames) < 2 {
		return nil, fmt.Errorf("%w: got %d frames, need at least 2", ErrMalformedMessage, len(frames))
	}
	topic := string(frames[0])
	if err := validateTopic(topic); err != nil {
		return nil, fmt.Errorf("%w: topic frame: %w", ErrMalformedMessage, err)
	}
	data := frames[1]
	if len(frames) > 2 {
		data = bytes.Join(frames[1:], nil)
	}
	var payload any
	if err := mr.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: payload frame: %w", ErrMalformedMessage, err)
	}
	return &Message{topic: topic, payload: payload}, nil
}

func validateTopic(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: topic is empty", ErrInvalidTopic)
	}
	if !utf8.ValidString(topic) {
		return fmt.Errorf("%w: topic is not valid UTF-8", ErrInvalidTopic)
	}
	return nil
}
