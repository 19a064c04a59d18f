package channel

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/aqualang/aquart/value"
)

// ErrClosed is returned by Send when the channel is permanently closed,
// either at the time of the call or while the sender was blocked
// waiting for space.
var ErrClosed = errors.New("channel: send on closed channel")

// Channel is a closable FIFO queue of Values guarded by one mutex and
// two wait conditions ("became non-full", "became non-empty").
//
// Every Channel has a stable UUID identity used by the garbage
// collector's registry; handles to the same Channel compare equal by
// identity.
type Channel struct {
	id       uuid.UUID
	capacity int

	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	buf      []value.Value
	closed   bool
}

var _ value.ChannelHandle = (*Channel)(nil)

// New creates a channel with the given capacity.
//
// Capacity 0 means unbounded: sends never block for space and Full is
// always false. This follows the runtime's original semantics rather
// than the conventional "unbuffered rendezvous" reading of zero
// capacity; callers wanting synchronous hand-off use capacity 1 and
// pair each send with a receive.
func New(capacity int) *Channel {
	if capacity < 0 {
		capacity = 0
	}
	c := &Channel{
		id:       uuid.New(),
		capacity: capacity,
	}
	c.notFull = sync.NewCond(&c.mu)
	c.notEmpty = sync.NewCond(&c.mu)
	return c
}

// ID returns the channel's stable identity.
func (c *Channel) ID() uuid.UUID { return c.id }

// Send appends v to the buffer and wakes one waiting receiver. If the
// channel is bounded and full, Send blocks until space frees or the
// channel closes. It returns ErrClosed, without enqueuing, when the
// channel is closed at call time or closes while Send is blocked.
//
// When several senders are blocked, the order in which they acquire
// freed space is unspecified.
func (c *Channel) Send(v value.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.capacity > 0 && len(c.buf) >= c.capacity && !c.closed {
		c.notFull.Wait()
	}
	if c.closed {
		return ErrClosed
	}

	c.buf = append(c.buf, v)
	c.notEmpty.Signal()
	return nil
}

// Receive removes and returns the oldest buffered value. It blocks
// while the buffer is empty and the channel is open. Once the channel
// is closed, Receive keeps draining buffered values and reports
// ok=false only when the buffer is exhausted.
//
// When several receivers are blocked, wake order is unspecified.
func (c *Channel) Receive() (v value.Value, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.buf) == 0 && !c.closed {
		c.notEmpty.Wait()
	}
	if len(c.buf) == 0 {
		return value.Null(), false
	}

	v = c.buf[0]
	c.buf[0] = value.Value{}
	c.buf = c.buf[1:]
	if c.capacity > 0 {
		c.notFull.Signal()
	}
	return v, true
}

// Close marks the channel closed and wakes every blocked sender and
// receiver so none deadlock. Close is idempotent; buffered values stay
// receivable.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

// Closed reports whether the channel has been closed.
func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Empty reports whether the buffer holds no values.
func (c *Channel) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf) == 0
}

// Full reports whether a bounded channel is at capacity. An unbounded
// channel is never full.
func (c *Channel) Full() bool {
	if c.capacity == 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf) >= c.capacity
}

// Len returns the number of buffered values.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

// Cap returns the configured capacity (0 = unbounded).
func (c *Channel) Cap() int { return c.capacity }

// Buffered returns a point-in-time copy of the queued values, oldest
// first. The collector walks this snapshot when tracing reachability
// through channel handles.
func (c *Channel) Buffered() []value.Value {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]value.Value, len(c.buf))
	copy(out, c.buf)
	return out
}

// String renders the channel as the fixed placeholder used by Value.
func (c *Channel) String() string { return "channel" }
