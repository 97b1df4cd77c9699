package xlapi

import (
	"errors"
	"time"
)

// ErrTimeout is returned by Receive when no message arrived within the
// read timeout. It is not fatal: streaming consumers log it and skip the
// tick.
var ErrTimeout = errors.New("xlapi: receive timed out")

// ErrChannelFull is returned by Send when the admission-controlled buffer
// is at capacity. The producer is never blocked.
var ErrChannelFull = errors.New("xlapi: channel full")

// DefaultCapacity bounds a channel when the caller does not choose one.
const DefaultCapacity = 256

// Channel is a bounded, concurrency-safe FIFO carrying one message kind
// from a producer to a consumer. Ordering is guaranteed only within a
// single channel. The channel itself has no side effects; send/receive
// logging is the owning component's job, which keeps it reusable.
type Channel[T any] struct {
	ch chan T
}

// NewChannel creates a channel with the given capacity; capacities below 1
// fall back to DefaultCapacity.
func NewChannel[T any](capacity int) *Channel[T] {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Channel[T]{ch: make(chan T, capacity)}
}

// Send appends msg to the tail without ever blocking the producer. A full
// buffer rejects the message with ErrChannelFull.
func (c *Channel[T]) Send(msg T) error {
	select {
	case c.ch <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}

// Receive returns the oldest unread message, blocking until one is
// available or timeout elapses. A non-positive timeout polls without
// blocking. On timeout the zero value and ErrTimeout are returned.
func (c *Channel[T]) Receive(timeout time.Duration) (T, error) {
	var zero T
	if timeout <= 0 {
		select {
		case msg := <-c.ch:
			return msg, nil
		default:
			return zero, ErrTimeout
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case msg := <-c.ch:
		return msg, nil
	case <-timer.C:
		return zero, ErrTimeout
	}
}

// Len reports the number of buffered messages.
func (c *Channel[T]) Len() int { return len(c.ch) }
