package gomq

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTopic indicates an empty or malformed message topic.
	ErrInvalidTopic = errors.New("gomq: invalid topic")
	// ErrSerialize indicates a payload could not be converted to its wire form.
	ErrSerialize = errors.New("gomq: serialization failed")
	// ErrDeserialize indicates a payload could not be converted back from its wire form.
	ErrDeserialize = errors.New("gomq: deserialization failed")
	// ErrMalformedMessage indicates received frames do not form a well-formed message.
	ErrMalformedMessage = errors.New("gomq: malformed message")
	// ErrBind indicates a failure establishing a bound endpoint.
	ErrBind = errors.New("gomq: bind failed")
	// ErrConnect indicates a failure establishing a connected endpoint.
	ErrConnect = errors.New("gomq: connect failed")
	// ErrSend indicates a transport-level failure while sending.
	ErrSend = errors.New("gomq: send failed")
	// ErrReceive indicates a transport-level failure while receiving.
	ErrReceive = errors.New("gomq: receive failed")
	// ErrProtocolState indicates a violation of the request/reply alternation contract.
	ErrProtocolState = errors.New("gomq: protocol state violation")
	// ErrClosed is returned when operations are attempted on a closed endpoint.
	ErrClosed = errors.New("gomq: endpoint is closed")
)

// AddrError reports a failure to establish an endpoint at an address.
// It unwraps to ErrBind or ErrConnect depending on the attempted role,
// with the transport cause chained behind it.
type AddrError struct {
	// Op is "bind" or "connect".
	Op string
	// Addr is the endpoint address that was attempted.
	Addr string
	// Err is the underlying transport error.
	Err error
}

func (e *AddrError) Error() string {
	return fmt.Sprintf("gomq: %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *AddrError) Unwrap() error {
	kind := ErrConnect
	if e.Op == "bind" {
		kind = ErrBind
	}
	return fmt.Errorf("%w: %w", kind, e.Err)
}

func newAddrError(op, addr string, err error) error {
	return &AddrError{Op: op, Addr: addr, Err: err}
}

func newSendError(err error) error {
	return fmt.Errorf("%w: %w", ErrSend, err)
}

func newReceiveError(err error) error {
	return fmt.Errorf("%w: %w", ErrReceive, err)
}

func newProtocolStateError(detail string) error {
	return fmt.Errorf("%w: %s", ErrProtocolState, detail)
}
