// Package redis implements the gomq pattern surface over Redis, for
// deployments that already run Redis instead of a ZeroMQ fabric.
//
// Publish/subscribe maps to Redis PUB/SUB: the message topic is the Redis
// channel, and prefix subscriptions use PSUBSCRIBE glob patterns. The
// push/pull pipeline maps to a Redis list: LPUSH feeds the queue and BRPOP
// drains it, which gives the same exactly-once, load-balanced distribution
// across pullers. Request/reply is deliberately not provided; Redis has no
// correlated socket-pair primitive to build strict alternation on.
//
// The envelope travels as a two-element JSON array [topic, payload], so
// topic and payload survive intact alongside the channel or queue name.
//
// All endpoints borrow a client owned by the caller; closing an endpoint
// never closes the client. Topics containing the Redis glob characters
// *?[] will not prefix-match reliably under PSUBSCRIBE.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/fxsml/gomq"
)

// Config configures a Redis-backed endpoint. The zero value is ready to use.
type Config struct {
	// BufferSize is the subscriber-side channel buffer. Default: 100.
	BufferSize int

	// Logger receives endpoint lifecycle and failure logs. Default: discard.
	Logger gomq.Logger
}

func (c Config) defaults() Config {
	cfg := c
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	return cfg
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func encodeEnvelope(m *gomq.Message) ([]byte, error) {
	data, err := json.Marshal([2]any{m.Topic(), m.Payload()})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gomq.ErrSerialize, err)
	}
	return data, nil
}

func decodeEnvelope(data []byte) (*gomq.Message, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, fmt.Errorf("%w: %w", gomq.ErrMalformedMessage, err)
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: got %d envelope parts, need 2", gomq.ErrMalformedMessage, len(parts))
	}
	var topic string
	if err := json.Unmarshal(parts[0], &topic); err != nil {
		return nil, fmt.Errorf("%w: topic part: %w", gomq.ErrMalformedMessage, err)
	}
	var payload any
	if err := json.Unmarshal(parts[1], &payload); err != nil {
		return nil, fmt.Errorf("%w: payload part: %w", gomq.ErrMalformedMessage, err)
	}
	return gomq.NewMessage(topic, payload)
}

// Publisher is the sending side of publish/subscribe over Redis PUB/SUB.
type Publisher struct {
	rdb    goredis.UniversalClient
	logger gomq.Logger
}

// NewPublisher creates a publisher on an existing client. Panics if rdb is
// nil.
func NewPublisher(rdb goredis.UniversalClient, cfg Config) *Publisher {
	if rdb == nil {
		panic("redis: client cannot be nil")
	}
	c := cfg.defaults()
	return &Publisher{rdb: rdb, logger: c.Logger}
}

// Publish sends a message to all subscribers whose pattern matches the
// topic. Fire-and-forget: Redis PUB/SUB keeps no backlog, so late joiners
// never see earlier messages.
func (p *Publisher) Publish(ctx context.Context, m *gomq.Message) error {
	data, err := encodeEnvelope(m)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, m.Topic(), data).Err(); err != nil {
		p.logger.Warn("gomq: redis publish failed", "topic", m.Topic(), "error", err)
		return fmt.Errorf("%w: %w", gomq.ErrSend, err)
	}
	return nil
}

// Subscriber is the receiving side of publish/subscribe over Redis
// PUB/SUB. It owns one PubSub connection for its lifetime.
type Subscriber struct {
	ps     *goredis.PubSub
	msgs   <-chan *goredis.Message
	logger gomq.Logger
}

// NewSubscriber creates a subscriber on an existing client. Call Subscribe
// to start receiving; a fresh subscriber matches nothing. Panics if rdb is
// nil.
func NewSubscriber(ctx context.Context, rdb goredis.UniversalClient, cfg Config) *Subscriber {
	if rdb == nil {
		panic("redis: client cannot be nil")
	}
	c := cfg.defaults()
	ps := rdb.PSubscribe(ctx)
	return &Subscriber{
		ps:     ps,
		msgs:   ps.Channel(goredis.WithChannelSize(c.BufferSize)),
		logger: c.Logger,
	}
}

// Subscribe adds a topic prefix to the subscription filter. The empty
// string matches all topics.
func (s *Subscriber) Subscribe(ctx context.Context, prefix string) error {
	return s.ps.PSubscribe(ctx, prefix+"*")
}

// Unsubscribe removes a previously added topic prefix.
func (s *Subscriber) Unsubscribe(ctx context.Context, prefix string) error {
	return s.ps.PUnsubscribe(ctx, prefix+"*")
}

// Receive blocks until a matching message arrives or ctx is done.
func (s *Subscriber) Receive(ctx context.Context) (*gomq.Message, error) {
	msg, ok, err := s.recv(ctx, -1)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: subscription closed", gomq.ErrReceive)
	}
	return msg, nil
}

// ReceiveTimeout blocks up to the given duration. ok reports whether a
// message arrived in time; expiry is not an error.
func (s *Subscriber) ReceiveTimeout(ctx context.Context, timeout time.Duration) (msg *gomq.Message, ok bool, err error) {
	return s.recv(ctx, timeout)
}

// TryReceive returns immediately with a buffered message if one is
// available.
func (s *Subscriber) TryReceive() (msg *gomq.Message, ok bool, err error) {
	select {
	case m, open := <-s.msgs:
		if !open {
			return nil, false, fmt.Errorf("%w: subscription closed", gomq.ErrReceive)
		}
		msg, err = decodeEnvelope([]byte(m.Payload))
		if err != nil {
			return nil, false, err
		}
		return msg, true, nil
	default:
		return nil, false, nil
	}
}

// recv is the single receive primitive: deadline < 0 blocks until a
// message or ctx cancellation, a positive deadline waits at most that
// long.
func (s *Subscriber) recv(ctx context.Context, deadline time.Duration) (*gomq.Message, bool, error) {
	var expire <-chan time.Time
	if deadline >= 0 {
		t := time.NewTimer(deadline)
		defer t.Stop()
		expire = t.C
	}
	select {
	case m, open := <-s.msgs:
		if !open {
			return nil, false, fmt.Errorf("%w: subscription closed", gomq.ErrReceive)
		}
		msg, err := decodeEnvelope([]byte(m.Payload))
		if err != nil {
			return nil, false, err
		}
		return msg, true, nil
	case <-expire:
		return nil, false, nil
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%w: %w", gomq.ErrReceive, ctx.Err())
	}
}

// Close releases the PubSub connection. Safe to call more than once.
func (s *Subscriber) Close() error {
	return s.ps.Close()
}

// Pusher feeds a Redis list acting as the pipeline queue.
type Pusher struct {
	rdb    goredis.UniversalClient
	queue  string
	logger gomq.Logger
}

// NewPusher creates a pusher on an existing client. queue names the Redis
// list shared with the pullers. Panics if rdb is nil or queue is empty.
func NewPusher(rdb goredis.UniversalClient, queue string, cfg Config) *Pusher {
	if rdb == nil {
		panic("redis: client cannot be nil")
	}
	if queue == "" {
		panic("redis: queue cannot be empty")
	}
	c := cfg.defaults()
	return &Pusher{rdb: rdb, queue: queue, logger: c.Logger}
}

// Push appends a message to the queue. Each message is delivered to
// exactly one puller.
func (p *Pusher) Push(ctx context.Context, m *gomq.Message) error {
	data, err := encodeEnvelope(m)
	if err != nil {
		return err
	}
	if err := p.rdb.LPush(ctx, p.queue, data).Err(); err != nil {
		p.logger.Warn("gomq: redis push failed", "queue", p.queue, "topic", m.Topic(), "error", err)
		return fmt.Errorf("%w: %w", gomq.ErrSend, err)
	}
	return nil
}

// Puller drains a Redis list acting as the pipeline queue. Multiple
// pullers on one queue compete for messages; each message goes to exactly
// one of them.
type Puller struct {
	rdb    goredis.UniversalClient
	queue  string
	logger gomq.Logger
}

// NewPuller creates a puller on an existing client. Panics if rdb is nil
// or queue is empty.
func NewPuller(rdb goredis.UniversalClient, queue string, cfg Config) *Puller {
	if rdb == nil {
		panic("redis: client cannot be nil")
	}
	if queue == "" {
		panic("redis: queue cannot be empty")
	}
	c := cfg.defaults()
	return &Puller{rdb: rdb, queue: queue, logger: c.Logger}
}

// Pull blocks until a message is available or ctx is done.
func (p *Puller) Pull(ctx context.Context) (*gomq.Message, error) {
	// BRPOP timeout 0 blocks indefinitely.
	vals, err := p.rdb.BRPop(ctx, 0, p.queue).Result()
	if err != nil {
		p.logger.Warn("gomq: redis pull failed", "queue", p.queue, "error", err)
		return nil, fmt.Errorf("%w: %w", gomq.ErrReceive, err)
	}
	return decodeEnvelope([]byte(vals[1]))
}

// PullTimeout blocks up to the given duration. ok reports whether a
// message arrived in time; expiry is not an error. Redis rounds the
// timeout up to its own resolution.
func (p *Puller) PullTimeout(ctx context.Context, timeout time.Duration) (msg *gomq.Message, ok bool, err error) {
	vals, err := p.rdb.BRPop(ctx, timeout, p.queue).Result()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		p.logger.Warn("gomq: redis pull failed", "queue", p.queue, "error", err)
		return nil, false, fmt.Errorf("%w: %w", gomq.ErrReceive, err)
	}
	msg, err = decodeEnvelope([]byte(vals[1]))
	if err != nil {
		return nil, false, err
	}
	return msg, true, nil
}

// TryPull returns immediately with a queued message if one is available.
func (p *Puller) TryPull(ctx context.Context) (msg *gomq.Message, ok bool, err error) {
	val, err := p.rdb.RPop(ctx, p.queue).Result()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		p.logger.Warn("gomq: redis pull failed", "queue", p.queue, "error", err)
		return nil, false, fmt.Errorf("%w: %w", gomq.ErrReceive, err)
	}
	msg, err = decodeEnvelope([]byte(val))
	if err != nil {
		return nil, false, err
	}
	return msg, true, nil
}
