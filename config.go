package gomq

import "time"

// Config configures an endpoint. The zero value is ready to use.
type Config struct {
	// SendHWM is the outbound high-water mark: the number of messages the
	// transport buffers per peer before applying backpressure or dropping
	// (pattern dependent). Default: 1000.
	SendHWM int

	// RecvHWM is the inbound high-water mark. Default: 1000.
	RecvHWM int

	// Linger is how long Close waits for unsent messages to flush.
	// Zero discards pending messages immediately on close.
	Linger time.Duration

	// Marshaler encodes and decodes message payloads on the wire.
	// Default: JSONMarshaler.
	Marshaler Marshaler

	// Logger receives endpoint lifecycle and failure logs.
	// Default: discard.
	Logger Logger
}

func (c Config) defaults() Config {
	cfg := c
	if cfg.SendHWM == 0 {
		cfg.SendHWM = 1000
	}
	if cfg.RecvHWM == 0 {
		cfg.RecvHWM = 1000
	}
	if cfg.Marshaler == nil {
		cfg.Marshaler = NewJSONMarshaler()
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	return cfg
}
