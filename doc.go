// Package gomq provides typed message endpoints over the three classic
// ZeroMQ messaging patterns: publish/subscribe, request/reply, and
// push/pull pipelines.
//
// Each pattern is exposed as a pair of nominal endpoint types whose
// constructors fix the topology role. Publishers and Repliers bind,
// Subscribers and Requesters connect, and pipeline endpoints choose
// explicitly via NewPusherBind/NewPusherConnect and the Puller
// equivalents. An endpoint owns exactly one underlying socket for its
// lifetime; it is not safe for concurrent use from multiple goroutines —
// use one endpoint per goroutine, the usual one-socket-per-participant
// discipline of ZeroMQ.
//
// Messages are immutable topic + payload envelopes. On the wire the topic
// travels as its own leading frame so subscribers can filter by prefix
// without decoding the payload. Payloads are structured JSON-like values;
// FromValue and PayloadAs convert to and from application types through a
// pluggable Marshaler.
//
// # Receiving
//
// Every receiving endpoint offers three variants backed by one
// poll-with-deadline primitive:
//
//	msg, err := sub.Receive()                 // block until a message arrives
//	msg, ok, err := sub.ReceiveTimeout(d)     // wait at most d
//	msg, ok, err := sub.TryReceive()          // poll once, never wait
//
// Absence of a message (timeout expiry, nothing pending) is not an error:
// ok reports whether a message arrived and err stays nil.
//
// # Quick start
//
//	pub, _ := gomq.NewPublisher("tcp://*:5556", gomq.Config{})
//	defer pub.Close()
//
//	sub, _ := gomq.NewSubscriber("tcp://localhost:5556", gomq.Config{})
//	defer sub.Close()
//	sub.Subscribe("sensors")
//
//	msg, _ := gomq.FromValue("sensors/temp", Reading{Celsius: 21.5})
//	pub.Publish(msg)
//
// Delivery follows ZeroMQ semantics: fan-out to all matching subscribers,
// fair queuing across repliers, load balancing across pullers. A
// subscriber that connects after a message was published will not see it
// (the slow-joiner property); pub/sub is fire-and-forget with no backlog.
package gomq
