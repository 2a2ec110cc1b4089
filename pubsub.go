package gomq

import (
	"time"

	zmq "github.com/pebbe/zmq4"
)

// Publisher is the sending side of the publish/subscribe pattern. A
// publisher always binds; any number of subscribers connect to it and
// the transport fans each published message out to every subscriber whose
// filter matches the topic.
type Publisher struct {
	sock *socket
}

// NewPublisher creates a publisher bound at addr.
func NewPublisher(addr string, cfg Config) (*Publisher, error) {
	sock, err := newSocket(zmq.PUB, roleBind, addr, cfg.defaults())
	if err != nil {
		return nil, err
	}
	return &Publisher{sock: sock}, nil
}

// Publish sends a message to all currently matching subscribers. Delivery
// is fire-and-forget: there is no confirmation, and a subscriber that
// connects afterwards will not see this message (the slow-joiner
// property).
func (p *Publisher) Publish(m *Message) error {
	return p.sock.send(m)
}

// Addr returns the address the publisher is bound to.
func (p *Publisher) Addr() string {
	return p.sock.addr
}

// Close releases the underlying socket. Safe to call more than once.
func (p *Publisher) Close() error {
	return p.sock.close()
}

// Subscriber is the receiving side of the publish/subscribe pattern. A
// subscriber always connects. It receives nothing until Subscribe is
// called; topic filtering is done by prefix match in the transport, so a
// subscriber never pays for decoding messages it did not ask for.
type Subscriber struct {
	sock *socket
}

// NewSubscriber creates a subscriber connected to addr. Call Subscribe to
// start receiving; a fresh subscriber has an empty filter set and matches
// nothing.
func NewSubscriber(addr string, cfg Config) (*Subscriber, error) {
	sock, err := newSocket(zmq.SUB, roleConnect, addr, cfg.defaults())
	if err != nil {
		return nil, err
	}
	return &Subscriber{sock: sock}, nil
}

// Subscribe adds a topic prefix to the subscription filter. The empty
// string matches all topics. Subscribing has no effect on messages already
// in flight and never delivers messages published before the subscription
// took effect.
func (s *Subscriber) Subscribe(prefix string) error {
	return s.sock.subscribe(prefix)
}

// Unsubscribe removes a previously added topic prefix from the filter.
func (s *Subscriber) Unsubscribe(prefix string) error {
	return s.sock.unsubscribe(prefix)
}

// Receive blocks until a matching message arrives and returns it.
func (s *Subscriber) Receive() (*Message, error) {
	return s.sock.recvBlocking()
}

// ReceiveTimeout blocks up to the given duration. ok reports whether a
// message arrived in time; expiry is not an error.
func (s *Subscriber) ReceiveTimeout(timeout time.Duration) (msg *Message, ok bool, err error) {
	return s.sock.recv(timeout)
}

// TryReceive returns immediately with a pending message if one is
// available. ok is false when nothing is pending; that is not an error.
func (s *Subscriber) TryReceive() (msg *Message, ok bool, err error) {
	return s.sock.recv(recvNoWait)
}

// Addr returns the address the subscriber is connected to.
func (s *Subscriber) Addr() string {
	return s.sock.addr
}

// Close releases the underlying socket. Safe to call more than once.
func (s *Subscriber) Close() error {
	return s.sock.close()
}
