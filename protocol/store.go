package protocol

import (
	"errors"
	"sync/atomic"
)

// ErrStoreFull is returned by Push when the store has no capacity left. It is
// a backpressure signal, not a failure: the producer keeps its cycle going and
// retries on its next scheduling slot.
var ErrStoreFull = errors.New("packet store full")

// OverflowPolicy names the behavior of Push against a full store.
type OverflowPolicy string

const (
	// OverflowBackpressure reports ErrStoreFull to the producer and leaves
	// the queue untouched. Default.
	OverflowBackpressure OverflowPolicy = "backpressure"
	// OverflowDrop discards the new packet silently; Push reports success.
	OverflowDrop OverflowPolicy = "drop"
)

// Valid reports whether p is a recognized policy name.
func (p OverflowPolicy) Valid() bool {
	return p == OverflowBackpressure || p == OverflowDrop
}

// Store is the process-wide outgoing-packet queue: any task may Push, exactly
// one task (the network task) consumes. Per-producer FIFO order is preserved;
// no ordering holds between distinct producers. Constructed once at boot and
// never destroyed.
type Store struct {
	ch      chan Packet
	policy  OverflowPolicy
	dropped uint64 // atomic
}

// NewStore returns a store holding up to depth packets. An unrecognized
// policy falls back to backpressure.
func NewStore(depth int, policy OverflowPolicy) *Store {
	if depth <= 0 {
		depth = 1
	}
	if !policy.Valid() {
		policy = OverflowBackpressure
	}
	return &Store{ch: make(chan Packet, depth), policy: policy}
}

// Push enqueues p without blocking. Against a full store the configured
// overflow policy applies.
func (s *Store) Push(p Packet) error {
	select {
	case s.ch <- p:
		return nil
	default:
	}
	if s.policy == OverflowDrop {
		atomic.AddUint64(&s.dropped, 1)
		return nil
	}
	return ErrStoreFull
}

// Dropped reports how many packets the drop overflow policy has discarded.
// Always zero under backpressure, where the producer sees ErrStoreFull
// instead.
func (s *Store) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

// Next blocks until a packet is available. Only the network task calls this.
func (s *Store) Next() Packet {
	return <-s.ch
}

// TryNext returns the next packet without blocking.
func (s *Store) TryNext() (Packet, bool) {
	select {
	case p := <-s.ch:
		return p, true
	default:
		return Packet{}, false
	}
}

// Len reports how many packets are queued.
func (s *Store) Len() int {
	return len(s.ch)
}

// Cap reports the store's fixed capacity.
func (s *Store) Cap() int {
	return cap(s.ch)
}
