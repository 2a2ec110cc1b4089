package gomq

import (
	"time"

	zmq "github.com/pebbe/zmq4"
)

// reqRepState tracks the strict request/reply alternation locally. The
// transport enforces alternation for its own socket, but misuse like
// reply-before-receive is an application protocol violation that must be
// caught before anything touches the wire.
type reqRepState int

const (
	stateReady reqRepState = iota
	stateAwaitingReply
)

// Requester is the client side of the request/reply pattern. A requester
// always connects; each Request sends one message and synchronously waits
// for its one matching reply. Multiple requesters may connect to the same
// replier address.
type Requester struct {
	sock  *socket
	state reqRepState
}

// NewRequester creates a requester connected to addr.
func NewRequester(addr string, cfg Config) (*Requester, error) {
	sock, err := newSocket(zmq.REQ, roleConnect, addr, cfg.defaults())
	if err != nil {
		return nil, err
	}
	return &Requester{sock: sock}, nil
}

// Request sends a request and blocks until the matching reply arrives.
// Issuing a new request while a reply is still outstanding returns
// ErrProtocolState.
func (r *Requester) Request(m *Message) (*Message, error) {
	if r.state != stateReady {
		return nil, newProtocolStateError("request while awaiting reply")
	}
	if err := r.sock.send(m); err != nil {
		return nil, err
	}
	r.state = stateAwaitingReply
	reply, _, err := r.sock.recv(recvForever)
	r.state = stateReady
	return reply, err
}

// RequestTimeout sends a request and waits up to the given duration for
// the reply. ok is false when the wait expires; expiry is not an error and
// the requester is ready for a fresh request afterwards. A stale reply to
// the abandoned request is dropped by the transport.
func (r *Requester) RequestTimeout(m *Message, timeout time.Duration) (reply *Message, ok bool, err error) {
	if r.state != stateReady {
		return nil, false, newProtocolStateError("request while awaiting reply")
	}
	if err := r.sock.send(m); err != nil {
		return nil, false, err
	}
	r.state = stateAwaitingReply
	reply, ok, err = r.sock.recv(timeout)
	r.state = stateReady
	return reply, ok, err
}

// Addr returns the address the requester is connected to.
func (r *Requester) Addr() string {
	return r.sock.addr
}

// Close releases the underlying socket. Safe to call more than once.
func (r *Requester) Close() error {
	return r.sock.close()
}

// Replier is the server side of the request/reply pattern. A replier
// always binds. Receive and Reply must strictly alternate: every received
// request gets exactly one reply before the next request can be received.
// Multiple repliers bound behind one address are load-balanced by the
// transport's fair queuing.
type Replier struct {
	sock  *socket
	state reqRepState
}

// NewReplier creates a replier bound at addr.
func NewReplier(addr string, cfg Config) (*Replier, error) {
	sock, err := newSocket(zmq.REP, roleBind, addr, cfg.defaults())
	if err != nil {
		return nil, err
	}
	return &Replier{sock: sock}, nil
}

// Receive blocks until a request arrives. After a request is received the
// replier owes a Reply; a second Receive before that Reply returns
// ErrProtocolState.
func (r *Replier) Receive() (*Message, error) {
	if r.state != stateReady {
		return nil, newProtocolStateError("receive called twice without an intervening reply")
	}
	msg, err := r.sock.recvBlocking()
	if err != nil {
		return nil, err
	}
	r.state = stateAwaitingReply
	return msg, nil
}

// ReceiveTimeout blocks up to the given duration for a request. ok reports
// whether a request arrived; expiry is not an error and leaves the replier
// ready.
func (r *Replier) ReceiveTimeout(timeout time.Duration) (msg *Message, ok bool, err error) {
	if r.state != stateReady {
		return nil, false, newProtocolStateError("receive called twice without an intervening reply")
	}
	msg, ok, err = r.sock.recv(timeout)
	if err != nil || !ok {
		return nil, false, err
	}
	r.state = stateAwaitingReply
	return msg, true, nil
}

// TryReceive polls once for a pending request without blocking.
func (r *Replier) TryReceive() (msg *Message, ok bool, err error) {
	return r.ReceiveTimeout(recvNoWait)
}

// Reply sends the reply to the request returned by the last Receive.
// Calling Reply with no request outstanding returns ErrProtocolState.
func (r *Replier) Reply(m *Message) error {
	if r.state != stateAwaitingReply {
		return newProtocolStateError("reply before receive")
	}
	if err := r.sock.send(m); err != nil {
		return err
	}
	r.state = stateReady
	return nil
}

// Addr returns the address the replier is bound to.
func (r *Replier) Addr() string {
	return r.sock.addr
}

// Close releases the underlying socket. Safe to call more than once.
func (r *Replier) Close() error {
	return r.sock.close()
}
