package gomq

import (
	"time"

	zmq "github.com/pebbe/zmq4"
)

// role is the topology role of an endpoint: bind designates the stable
// rendezvous point, connect the peers that locate it. Fixed per endpoint
// at construction.
type role int

const (
	roleBind role = iota
	roleConnect
)

func (r role) String() string {
	if r == roleBind {
		return "bind"
	}
	return "connect"
}

// recvForever and recvNoWait are the two degenerate deadlines of the
// receive primitive: block until a message arrives, and poll exactly once.
const (
	recvForever time.Duration = -1
	recvNoWait  time.Duration = 0
)

// socket wraps one exclusively-owned ZeroMQ socket with uniform
// send/receive semantics shared by all six pattern endpoints. It is not
// safe for concurrent use; each endpoint owns its socket and each socket
// belongs to one goroutine at a time.
type socket struct {
	soc       *zmq.Socket
	poller    *zmq.Poller
	addr      string
	role      role
	marshaler Marshaler
	logger    Logger
	closed    bool
}

// newSocket opens a ZeroMQ socket of the given type, applies the config,
// and establishes it at addr in the given role. Fails fast: on any error
// the socket is released and an AddrError carrying the address and cause
// is returned.
func newSocket(ztype zmq.Type, r role, addr string, cfg Config) (*socket, error) {
	soc, err := zmq.NewSocket(ztype)
	if err != nil {
		return nil, newAddrError(r.String(), addr, err)
	}
	if err := configureSocket(soc, ztype, cfg); err != nil {
		soc.Close()
		return nil, newAddrError(r.String(), addr, err)
	}

	switch r {
	case roleBind:
		err = soc.Bind(addr)
	case roleConnect:
		err = soc.Connect(addr)
	}
	if err != nil {
		soc.Close()
		return nil, newAddrError(r.String(), addr, err)
	}

	poller := zmq.NewPoller()
	poller.Add(soc, zmq.POLLIN)

	cfg.Logger.Debug("gomq: endpoint open", "role", r.String(), "addr", addr)
	return &socket{
		soc:       soc,
		poller:    poller,
		addr:      addr,
		role:      r,
		marshaler: cfg.Marshaler,
		logger:    cfg.Logger,
	}, nil
}

func configureSocket(soc *zmq.Socket, ztype zmq.Type, cfg Config) error {
	if err := soc.SetSndhwm(cfg.SendHWM); err != nil {
		return err
	}
	if err := soc.SetRcvhwm(cfg.RecvHWM); err != nil {
		return err
	}
	if err := soc.SetLinger(cfg.Linger); err != nil {
		return err
	}
	if ztype == zmq.REQ {
		// Relaxed + correlate lets a requester issue a fresh request after
		// an abandoned (timed out) one; stale replies are matched and
		// dropped by the transport.
		if err := soc.SetReqRelaxed(true); err != nil {
			return err
		}
		if err := soc.SetReqCorrelate(true); err != nil {
			return err
		}
	}
	return nil
}

// send encodes the message and transmits its frames atomically.
func (s *socket) send(m *Message) error {
	if s.closed {
		return ErrClosed
	}
	frames, err := m.Encode(s.marshaler)
	if err != nil {
		return err
	}
	if _, err := s.soc.SendMessage(frames); err != nil {
		s.logger.Warn("gomq: send failed", "addr", s.addr, "topic", m.Topic(), "error", err)
		return newSendError(err)
	}
	return nil
}

// recv is the single receive primitive behind the blocking, timeout, and
// non-blocking variants. deadline < 0 blocks until a full message arrives,
// 0 polls exactly once, and a positive deadline waits at most that long.
// ok reports whether a message arrived; absence is not an error.
func (s *socket) recv(deadline time.Duration) (msg *Message, ok bool, err error) {
	if s.closed {
		return nil, false, ErrClosed
	}
	polled, err := s.poller.Poll(deadline)
	if err != nil {
		s.logger.Warn("gomq: receive failed", "addr", s.addr, "error", err)
		return nil, false, newReceiveError(err)
	}
	if len(polled) == 0 {
		return nil, false, nil
	}
	frames, err := s.soc.RecvMessageBytes(0)
	if err != nil {
		s.logger.Warn("gomq: receive failed", "addr", s.addr, "error", err)
		return nil, false, newReceiveError(err)
	}
	msg, err = Decode(frames, s.marshaler)
	if err != nil {
		return nil, false, err
	}
	return msg, true, nil
}

// recvBlocking wraps recv for the call sites that must return a message.
func (s *socket) recvBlocking() (*Message, error) {
	msg, _, err := s.recv(recvForever)
	return msg, err
}

func (s *socket) subscribe(prefix string) error {
	if s.closed {
		return ErrClosed
	}
	return s.soc.SetSubscribe(prefix)
}

func (s *socket) unsubscribe(prefix string) error {
	if s.closed {
		return ErrClosed
	}
	return s.soc.SetUnsubscribe(prefix)
}

// close releases the underlying socket exactly once. Like every other
// operation it must be issued from the goroutine that owns the endpoint;
// it does not interrupt a blocking receive racing on another goroutine.
// Operations after close return ErrClosed.
func (s *socket) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Debug("gomq: endpoint closed", "role", s.role.String(), "addr", s.addr)
	return s.soc.Close()
}
