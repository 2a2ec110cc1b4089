package gomq

import (
	"time"

	zmq "github.com/pebbe/zmq4"
)

// Pusher is the sending side of the push/pull pipeline. Pushed messages
// are load-balanced across all connected pullers by the transport; each
// message is delivered to exactly one of them. Pipeline topology permits
// either side to bind, so the constructor choice is explicit.
type Pusher struct {
	sock *socket
}

// NewPusherBind creates a pusher bound at addr. Use when the pusher is the
// stable rendezvous point, e.g. a ventilator that workers connect to.
func NewPusherBind(addr string, cfg Config) (*Pusher, error) {
	return newPusher(roleBind, addr, cfg)
}

// NewPusherConnect creates a pusher connected to addr. Use when the
// downstream side binds, e.g. workers feeding a bound collector sink.
func NewPusherConnect(addr string, cfg Config) (*Pusher, error) {
	return newPusher(roleConnect, addr, cfg)
}

func newPusher(r role, addr string, cfg Config) (*Pusher, error) {
	sock, err := newSocket(zmq.PUSH, r, addr, cfg.defaults())
	if err != nil {
		return nil, err
	}
	return &Pusher{sock: sock}, nil
}

// Push sends a message downstream. One-way: no reply path exists in this
// pattern. A puller that wants to emit results uses a second endpoint.
func (p *Pusher) Push(m *Message) error {
	return p.sock.send(m)
}

// Addr returns the pusher's address.
func (p *Pusher) Addr() string {
	return p.sock.addr
}

// Close releases the underlying socket. Safe to call more than once.
func (p *Pusher) Close() error {
	return p.sock.close()
}

// Puller is the receiving side of the push/pull pipeline. Messages from
// multiple pushers are fair-queued by the transport.
type Puller struct {
	sock *socket
}

// NewPullerBind creates a puller bound at addr.
func NewPullerBind(addr string, cfg Config) (*Puller, error) {
	return newPuller(roleBind, addr, cfg)
}

// NewPullerConnect creates a puller connected to addr.
func NewPullerConnect(addr string, cfg Config) (*Puller, error) {
	return newPuller(roleConnect, addr, cfg)
}

func newPuller(r role, addr string, cfg Config) (*Puller, error) {
	sock, err := newSocket(zmq.PULL, r, addr, cfg.defaults())
	if err != nil {
		return nil, err
	}
	return &Puller{sock: sock}, nil
}

// Pull blocks until a message arrives and returns it.
func (p *Puller) Pull() (*Message, error) {
	return p.sock.recvBlocking()
}

// PullTimeout blocks up to the given duration. ok reports whether a
// message arrived in time; expiry is not an error.
func (p *Puller) PullTimeout(timeout time.Duration) (msg *Message, ok bool, err error) {
	return p.sock.recv(timeout)
}

// TryPull returns immediately with a pending message if one is available.
func (p *Puller) TryPull() (msg *Message, ok bool, err error) {
	return p.sock.recv(recvNoWait)
}

// Addr returns the puller's address.
func (p *Puller) Addr() string {
	return p.sock.addr
}

// Close releases the underlying socket. Safe to call more than once.
func (p *Puller) Close() error {
	return p.sock.close()
}
