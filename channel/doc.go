// Package channel implements the bounded, thread-safe FIFO queue used
// for inter-fiber communication.
//
// A Channel carries value.Value items, supports any number of
// concurrent senders and receivers, and applies backpressure: a send
// on a full bounded channel blocks the calling goroutine until space
// frees or the channel closes. Closing is idempotent and never
// discards buffered values; receivers drain them before observing
// exhaustion.
package channel
