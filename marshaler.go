package gomq

import "encoding/json"

// Marshaler handles serialization and deserialization of message payloads.
type Marshaler interface {
	// Marshal encodes a value to bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes bytes into a value.
	Unmarshal(data []byte, v any) error

	// DataContentType returns the content type of the encoded form.
	// Example: "application/json"
	DataContentType() string
}

// JSONMarshaler implements Marshaler using JSON encoding.
type JSONMarshaler struct{}

// NewJSONMarshaler creates a new JSON marshaler.
func NewJSONMarshaler() *JSONMarshaler {
	return &JSONMarshaler{}
}

// Marshal encodes a value to JSON bytes.
func (m *JSONMarshaler) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON bytes into a value.
func (m *JSONMarshaler) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// DataContentType returns "application/json".
func (m *JSONMarshaler) DataContentType() string {
	return "application/json"
}
